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

package mergetree

import (
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// commutativeMerge implements the set-delta algorithm of spec section
// 4.5 for a commutative parent: it computes each side's additions and
// deletions relative to Base and checks that applying Right's delta to
// Left's list and Left's delta to Right's list yield the same class
// sequence. On agreement it returns a Mixed node over that sequence,
// with synthetic separators before any class neither side's source can
// supply adjacency context for. On disagreement it returns a Conflict
// node carrying the three raw child sequences.
func (b *builder) commutativeMerge(leader *tree.Node, cp langprofile.CommutativeParent) (*Node, bool) {
	class := b.classes.ClassOf(leader)
	if class == nil {
		return nil, false
	}
	cb := b.leadersOf(class.Base)
	cl := b.leadersOf(class.Left)
	cr := b.leadersOf(class.Right)

	sb := setOf(cb)
	dL := diffSet(sb, setOf(cl))
	aL := diffOrder(cl, sb)
	dR := diffSet(sb, setOf(cr))
	aR := diffOrder(cr, sb)

	resultFromLeft, noAnchorR := mergeOneDirection(cl, cr, dR, aR)
	resultFromRight, noAnchorL := mergeOneDirection(cr, cl, dL, aL)

	if !sameSeq(resultFromLeft, resultFromRight) {
		return &Node{
			Kind:         KindConflict,
			Type:         leader.Type,
			ConflictOrig: leader,
			ConflictBase: b.buildSeq(cb),
			ConflictLeft: b.buildSeq(cl),
			ConflictRight: b.buildSeq(cr),
		}, true
	}

	added := map[*tree.Node]bool{}
	for _, a := range aL {
		added[a] = true
	}
	for _, a := range aR {
		added[a] = true
	}

	var children []*Node
	for _, x := range resultFromLeft {
		if added[x] && (noAnchorL[x] || noAnchorR[x]) {
			group, _ := cp.GroupOf(x.Type)
			children = append(children, &Node{Kind: KindCommutativeSeparator, SeparatorText: cp.SeparatorFor(group)})
		}
		children = append(children, b.buildNode(x))
	}
	return &Node{Kind: KindMixed, Type: leader.Type, Children: children}, true
}

func (b *builder) leadersOf(n *tree.Node) []*tree.Node {
	if n == nil {
		return nil
	}
	out := make([]*tree.Node, len(n.Children))
	for i, c := range n.Children {
		out[i] = b.classes.LeaderOf(c)
	}
	return out
}

func (b *builder) buildSeq(seq []*tree.Node) []*Node {
	out := make([]*Node, len(seq))
	for i, x := range seq {
		out[i] = b.buildNode(x)
	}
	return out
}

func setOf(xs []*tree.Node) map[*tree.Node]bool {
	m := make(map[*tree.Node]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func diffSet(a, b map[*tree.Node]bool) map[*tree.Node]bool {
	out := map[*tree.Node]bool{}
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func diffOrder(seq []*tree.Node, exclude map[*tree.Node]bool) []*tree.Node {
	var out []*tree.Node
	for _, x := range seq {
		if !exclude[x] {
			out = append(out, x)
		}
	}
	return out
}

func sameSeq(a, b []*tree.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeOneDirection rebuilds primary's sequence after dropping classes
// in deletions and splicing in additions (already in the other side's
// order) right after their nearest preceding primary-matched neighbor
// within that other side's own order, or at the end if they have none.
// noAnchor reports which additions landed with no such neighbor.
func mergeOneDirection(primary, other []*tree.Node, deletions map[*tree.Node]bool, additions []*tree.Node) (order []*tree.Node, noAnchor map[*tree.Node]bool) {
	primarySet := setOf(primary)
	addSet := setOf(additions)

	anchorOf := map[*tree.Node]*tree.Node{}
	var lastAnchor *tree.Node
	for _, x := range other {
		if addSet[x] {
			anchorOf[x] = lastAnchor
			continue
		}
		if primarySet[x] {
			lastAnchor = x
		}
	}

	inserted := map[*tree.Node]bool{}
	noAnchor = map[*tree.Node]bool{}
	for _, x := range primary {
		if deletions[x] {
			continue
		}
		order = append(order, x)
		for _, a := range additions {
			if inserted[a] {
				continue
			}
			if anc, ok := anchorOf[a]; ok && anc == x {
				order = append(order, a)
				inserted[a] = true
			}
		}
	}
	for _, a := range additions {
		if inserted[a] {
			continue
		}
		order = append(order, a)
		inserted[a] = true
		if anchorOf[a] == nil {
			noAnchor[a] = true
		}
	}
	return order, noAnchor
}
