// Copyright (c) 2026 The SynMerge Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package classmap unifies the three pairwise matchings (Base-Left,
// Base-Right, Left-Right) into per-node equivalence classes, each
// naming at most one node per revision, with a deterministic leader
// used by the PCS encoder and merger as the class's canonical identity.
package classmap

import (
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Class is one equivalence class: the (at most one) node contributed
// by each revision, plus the elected leader.
type Class struct {
	Base, Left, Right *tree.Node
	Leader            *tree.Node
	LeaderRev         common.Revision
}

// NodeOf returns the class's node for rev, or nil if the class has no
// member in that revision.
func (c *Class) NodeOf(rev common.Revision) *tree.Node {
	switch rev {
	case common.Base:
		return c.Base
	case common.Left:
		return c.Left
	case common.Right:
		return c.Right
	default:
		return nil
	}
}

// Map is the bidirectional index between nodes and classes built by
// Build.
type Map struct {
	byNode    map[*tree.Node]*Class
	byLeader  map[*tree.Node]*Class
	classes   []*Class
}

// ClassOf returns the class n belongs to, or nil if n was not part of
// any tree passed to Build.
func (m *Map) ClassOf(n *tree.Node) *Class { return m.byNode[n] }

// LeaderOf returns n's class leader, or n itself if n belongs to no
// known class (defensive default; Build always classifies every node
// reachable from the three tree roots).
func (m *Map) LeaderOf(n *tree.Node) *tree.Node {
	if c, ok := m.byNode[n]; ok {
		return c.Leader
	}
	return n
}

// Classes returns every class the map knows about, in no particular
// order.
func (m *Map) Classes() []*Class { return m.classes }

// Build runs union-find over every node of base, left and right,
// seeded by the three pairwise matchings. Processing order is
// Base-Left, then Base-Right, then Left-Right: a union that would
// place two distinct Base nodes into the same class is rejected, so
// whichever link reaches a given pair of Base-rooted classes first
// wins, realizing the spec's Base-Left > Base-Right > Left-Right
// priority without extra bookkeeping.
func Build(base, left, right *tree.Tree, baseLeft, baseRight, leftRight *match.Matching) *Map {
	uf := newUnionFind()

	register := func(t *tree.Tree, rev common.Revision) {
		if t == nil || t.Root == nil {
			return
		}
		for _, n := range t.AllNodes() {
			uf.add(n, rev)
		}
	}
	register(base, common.Base)
	register(left, common.Left)
	register(right, common.Right)

	if baseLeft != nil {
		for a, b := range baseLeft.AtoB {
			uf.union(a, b)
		}
	}
	if baseRight != nil {
		for a, b := range baseRight.AtoB {
			uf.union(a, b)
		}
	}
	if leftRight != nil {
		for a, b := range leftRight.AtoB {
			uf.union(a, b)
		}
	}

	m := &Map{byNode: map[*tree.Node]*Class{}, byLeader: map[*tree.Node]*Class{}}
	groups := map[*tree.Node][]*tree.Node{}
	for n := range uf.rev {
		r := uf.find(n)
		groups[r] = append(groups[r], n)
	}
	for _, members := range groups {
		c := &Class{}
		for _, n := range members {
			switch uf.rev[n] {
			case common.Base:
				c.Base = n
			case common.Left:
				c.Left = n
			case common.Right:
				c.Right = n
			}
		}
		switch {
		case c.Base != nil:
			c.Leader, c.LeaderRev = c.Base, common.Base
		case c.Left != nil:
			c.Leader, c.LeaderRev = c.Left, common.Left
		default:
			c.Leader, c.LeaderRev = c.Right, common.Right
		}
		m.classes = append(m.classes, c)
		m.byLeader[c.Leader] = c
		for _, n := range members {
			m.byNode[n] = c
		}
	}
	return m
}

// unionFind is a standard disjoint-set structure keyed by node
// identity, augmented with each root's contributed Base node (nil if
// none), used to reject unions that would merge two distinct Base
// nodes into one class.
type unionFind struct {
	parent map[*tree.Node]*tree.Node
	rev    map[*tree.Node]common.Revision
	baseOf map[*tree.Node]*tree.Node
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: map[*tree.Node]*tree.Node{},
		rev:    map[*tree.Node]common.Revision{},
		baseOf: map[*tree.Node]*tree.Node{},
	}
}

func (u *unionFind) add(n *tree.Node, rev common.Revision) {
	if _, ok := u.parent[n]; ok {
		return
	}
	u.parent[n] = n
	u.rev[n] = rev
	if rev == common.Base {
		u.baseOf[n] = n
	}
}

func (u *unionFind) find(n *tree.Node) *tree.Node {
	root := n
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[n] != root {
		next := u.parent[n]
		u.parent[n] = root
		n = next
	}
	return root
}

// union merges a's and b's sets unless doing so would combine two
// distinct Base-revision nodes, in which case it is a silent no-op:
// the two sides remain in separate classes, which is the class-split
// rule of spec section 4.3.
func (u *unionFind) union(a, b *tree.Node) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	ba, bb := u.baseOf[ra], u.baseOf[rb]
	if ba != nil && bb != nil && ba != bb {
		return
	}
	u.parent[ra] = rb
	if ba != nil {
		u.baseOf[rb] = ba
	}
	delete(u.baseOf, ra)
}
