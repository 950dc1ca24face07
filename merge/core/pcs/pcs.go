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

// Package pcs encodes a post-processed syntax tree as a set of
// Parent-Child-Successor triples (Lindholm-style ordered-tree
// encoding): for every internal node's child list c0..cn, one triple
// per adjacent pair plus sentinel triples at both ends, so the child
// order is fully recoverable by following the successor chain from the
// begin sentinel to the end sentinel. Every node reference is the
// node's class leader, so the three revisions' triples are directly
// comparable.
package pcs

import (
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/classmap"
	"github.com/synmerge/synmerge/merge/core/tree"
)

var (
	// Begin is the sentinel preceding a parent's first child.
	Begin = &tree.Node{Type: "⊣"}
	// End is the sentinel following a parent's last child.
	End = &tree.Node{Type: "⊢"}
	// VirtualRoot is the synthetic parent of each tree's real root.
	VirtualRoot = &tree.Node{Type: "⊥"}
)

func isSentinel(n *tree.Node) bool { return n == Begin || n == End }

// Triple is one (parent, child, successor) edge, tagged with the
// revision it was encoded from.
type Triple struct {
	Parent, Child, Successor *tree.Node
	Rev                      common.Revision
}

// Encode walks t top-down, replacing every node reference with its
// class leader, and returns its triples including the virtual-root
// pair. Atomic and childless nodes contribute no child-list triples of
// their own (nothing to encode), matching the matcher's treatment of
// such nodes as leaves.
func Encode(t *tree.Tree, classes *classmap.Map, rev common.Revision) []Triple {
	if t == nil || t.Root == nil {
		return nil
	}
	leaderOf := func(n *tree.Node) *tree.Node {
		if l := classes.LeaderOf(n); l != nil {
			return l
		}
		return n
	}

	rootLeader := leaderOf(t.Root)
	triples := []Triple{
		{VirtualRoot, Begin, rootLeader, rev},
		{VirtualRoot, rootLeader, End, rev},
	}

	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.IsLeaf() {
			return
		}
		parentLeader := leaderOf(n)
		prev := Begin
		for _, c := range n.Children {
			childLeader := leaderOf(c)
			triples = append(triples, Triple{parentLeader, prev, childLeader, rev})
			prev = childLeader
		}
		triples = append(triples, Triple{parentLeader, prev, End, rev})
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return triples
}

// Set is the union of three revisions' triples after the Base-tagged
// conflict-elimination pass, indexed for the merged-tree builder's
// successor lookups.
type Set struct {
	Triples []Triple
	byEdge  map[edgeKey][]Triple
}

type edgeKey struct{ parent, child *tree.Node }

// Merge unions baseTriples, leftTriples and rightTriples, then drops
// any Base triple that conflicts with a Left or Right triple under the
// three rules of spec section 4.4. The surviving set may still be
// internally inconsistent (e.g. a cycle, or two Left/Right triples
// disagreeing) — resolving that is the merged-tree builder's job.
func Merge(baseTriples, leftTriples, rightTriples []Triple) *Set {
	var nonBase []Triple
	nonBase = append(nonBase, leftTriples...)
	nonBase = append(nonBase, rightTriples...)

	var survivors []Triple
	for _, b := range baseTriples {
		if conflicts(b, nonBase) {
			continue
		}
		survivors = append(survivors, b)
	}
	survivors = append(survivors, nonBase...)

	return index(survivors)
}

func conflicts(b Triple, others []Triple) bool {
	for _, x := range others {
		// (i) same (parent, child) but different successor.
		if b.Parent == x.Parent && b.Child == x.Child && b.Successor != x.Successor {
			return true
		}
		// (ii) same (parent, successor) but different child.
		if b.Parent == x.Parent && b.Successor == x.Successor && b.Child != x.Child {
			return true
		}
		// (iii) shared child/successor reference but different parents.
		// Begin/End sentinels recur across unrelated parents, so they
		// are excluded from this comparison.
		if b.Parent != x.Parent && sharesNonSentinelRef(b, x) {
			return true
		}
	}
	return false
}

func sharesNonSentinelRef(a, b Triple) bool {
	refEq := func(p, q *tree.Node) bool {
		if isSentinel(p) || isSentinel(q) {
			return false
		}
		return p == q
	}
	return refEq(a.Child, b.Child) || refEq(a.Child, b.Successor) ||
		refEq(a.Successor, b.Child) || refEq(a.Successor, b.Successor)
}

func index(triples []Triple) *Set {
	s := &Set{Triples: triples, byEdge: map[edgeKey][]Triple{}}
	for _, t := range triples {
		k := edgeKey{t.Parent, t.Child}
		s.byEdge[k] = append(s.byEdge[k], t)
	}
	return s
}

// Successors returns every candidate successor triple recorded for
// (parent, child); more than one distinct Successor value means the
// builder has encountered an order conflict at this step.
func (s *Set) Successors(parent, child *tree.Node) []Triple {
	return s.byEdge[edgeKey{parent, child}]
}

// DistinctSuccessors deduplicates Successors by the Successor node,
// returning each distinct successor once along with a representative
// triple.
func (s *Set) DistinctSuccessors(parent, child *tree.Node) []Triple {
	seen := map[*tree.Node]bool{}
	var out []Triple
	for _, t := range s.Successors(parent, child) {
		if seen[t.Successor] {
			continue
		}
		seen[t.Successor] = true
		out = append(out, t)
	}
	return out
}
