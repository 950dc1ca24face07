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
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/classmap"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/pcs"
	"github.com/synmerge/synmerge/merge/core/tree"
	"github.com/synmerge/synmerge/merge/fallback"
)

// Result is the outcome of Build: the reconstructed root plus the
// bookkeeping the post-build validators need.
type Result struct {
	Root         *Node
	DeleteModify []DeleteModifyCase
}

// Build reconstructs the merged tree from set, rooted at the virtual
// root's single real child, then runs the delete/modify validator
// (4.6) and the signature-uniqueness validator (4.7) over the result.
func Build(profile *langprofile.Profile, base, left, right *tree.Tree, classes *classmap.Map, set *pcs.Set) *Result {
	b := &builder{
		profile: profile, base: base, left: left, right: right,
		classes: classes, set: set, byLeader: map[*tree.Node]*Node{},
	}

	rootSuccessors := set.DistinctSuccessors(pcs.VirtualRoot, pcs.Begin)
	var root *Node
	if len(rootSuccessors) == 1 && rootSuccessors[0].Successor != pcs.End {
		root = b.buildNode(rootSuccessors[0].Successor)
	} else {
		root = &Node{Kind: KindConflict}
	}

	dm := b.deleteModifyCases()
	b.applyDeleteModify(dm)
	applySignatureValidator(profile, root, b.srcFor)

	return &Result{Root: root, DeleteModify: dm}
}

type revNode struct {
	rev  common.Revision
	node *tree.Node
	src  []byte
}

type builder struct {
	profile           *langprofile.Profile
	base, left, right *tree.Tree
	classes           *classmap.Map
	set               *pcs.Set
	byLeader          map[*tree.Node]*Node
}

func (b *builder) srcFor(rev common.Revision) []byte {
	switch rev {
	case common.Base:
		if b.base != nil {
			return b.base.Source
		}
	case common.Left:
		if b.left != nil {
			return b.left.Source
		}
	case common.Right:
		if b.right != nil {
			return b.right.Source
		}
	}
	return nil
}

func (b *builder) presentNodes(leader *tree.Node) []revNode {
	class := b.classes.ClassOf(leader)
	if class == nil {
		return nil
	}
	var out []revNode
	if class.Base != nil {
		out = append(out, revNode{common.Base, class.Base, b.srcFor(common.Base)})
	}
	if class.Left != nil {
		out = append(out, revNode{common.Left, class.Left, b.srcFor(common.Left)})
	}
	if class.Right != nil {
		out = append(out, revNode{common.Right, class.Right, b.srcFor(common.Right)})
	}
	return out
}

// buildNode decides, for the class leader's node, whether it is Exact
// (unchanged, or present in only one revision) or needs reconstruction
// of its own child list (Mixed/Conflict/LineBasedMerge). Results are
// memoized by leader so the delete/modify validator can later locate
// and, if needed, rewrite the node produced for any given class.
func (b *builder) buildNode(leader *tree.Node) *Node {
	if n, ok := b.byLeader[leader]; ok {
		return n
	}
	n := b.buildNodeUncached(leader)
	b.byLeader[leader] = n
	return n
}

func (b *builder) buildNodeUncached(leader *tree.Node) *Node {
	present := b.presentNodes(leader)
	if len(present) == 0 {
		return &Node{Kind: KindExact, Type: leader.Type, ExactOrig: leader}
	}
	if len(present) == 1 {
		return &Node{Kind: KindExact, Type: present[0].node.Type, ExactRev: present[0].rev, ExactOrig: present[0].node}
	}

	same := true
	for i := 1; i < len(present); i++ {
		if present[i].node.Hash(present[i].src) != present[0].node.Hash(present[0].src) {
			same = false
			break
		}
	}
	if same {
		pick := preferred(present)
		return &Node{Kind: KindExact, Type: pick.node.Type, ExactRev: pick.rev, ExactOrig: pick.node}
	}

	return b.buildChildren(leader)
}

// preferred applies the Base > Left > Right priority used throughout
// the engine whenever several revisions agree and one representative
// must be picked.
func preferred(present []revNode) revNode {
	best := present[0]
	for _, p := range present[1:] {
		if rank(p.rev) < rank(best.rev) {
			best = p
		}
	}
	return best
}

func rank(rev common.Revision) int {
	switch rev {
	case common.Base:
		return 0
	case common.Left:
		return 1
	default:
		return 2
	}
}

// buildChildren walks the successor chain for leader's child list,
// recursing into each resolved child. Multiple distinct successors at
// one step is an order conflict: resolved via the commutative merge if
// the profile marks leader's type as a commutative parent, otherwise
// via line-based merge fallback over the whole node. A cycle or an
// unreachable end sentinel also falls back to line-based merge.
func (b *builder) buildChildren(leader *tree.Node) *Node {
	var kids []*Node
	cur := pcs.Begin
	visited := map[*tree.Node]bool{}

	for {
		succs := b.set.DistinctSuccessors(leader, cur)
		switch len(succs) {
		case 0:
			return b.lineBasedFallback(leader)
		case 1:
			next := succs[0].Successor
			if next == pcs.End {
				return &Node{Kind: KindMixed, Type: leader.Type, Children: kids}
			}
			if visited[next] {
				return b.lineBasedFallback(leader)
			}
			visited[next] = true
			kids = append(kids, b.buildNode(next))
			cur = next
		default:
			if cp, ok := b.profile.CommutativeParent(leader.Type); ok {
				if merged, ok2 := b.commutativeMerge(leader, cp); ok2 {
					return merged
				}
			}
			return b.lineBasedFallback(leader)
		}
	}
}

// lineBasedFallback resolves an order conflict or cycle that the
// commutative merge either doesn't apply to or couldn't resolve by
// running the diff3 line-based merge (spec 4.5/4.6/4.7/7's fallback of
// last resort) over the three revisions' source spans for this class,
// producing real merged text — conflict markers included, if the line
// merge itself conflicts — rather than leaving the spans unconsumed.
func (b *builder) lineBasedFallback(leader *tree.Node) *Node {
	n := &Node{Kind: KindLineBasedMerge, Type: leader.Type, ConflictOrig: leader}
	class := b.classes.ClassOf(leader)
	if class == nil {
		return n
	}
	var baseText, leftText, rightText []byte
	if class.Base != nil {
		n.LBBase, n.LBBasePresent = class.Base.Span, true
		baseText = class.Base.Span.Slice(b.srcFor(common.Base))
	}
	if class.Left != nil {
		n.LBLeft, n.LBLeftPresent = class.Left.Span, true
		leftText = class.Left.Span.Slice(b.srcFor(common.Left))
	}
	if class.Right != nil {
		n.LBRight, n.LBRightPresent = class.Right.Span, true
		rightText = class.Right.Span.Slice(b.srcFor(common.Right))
	}
	res := fallback.Merge(baseText, leftText, rightText, common.Labels{})
	n.LBText, n.LBConflicts = res.Text, res.Conflicts
	return n
}
