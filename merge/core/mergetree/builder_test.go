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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/classmap"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/pcs"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func sp(start, n int) common.Span { return common.Span{Start: start, End: start + n} }

func leaf(typ string, start, n int) *tree.Node {
	return &tree.Node{Type: typ, Span: sp(start, n)}
}

// identityMatch links every node in a with the node at the same
// pre-order position in b, assuming the two trees are structurally
// identical.
func identityMatch(a, b *tree.Node) *match.Matching {
	m := match.New()
	var walk func(x, y *tree.Node)
	walk = func(x, y *tree.Node) {
		m.Link(x, y)
		for i := range x.Children {
			walk(x.Children[i], y.Children[i])
		}
	}
	walk(a, b)
	return m
}

func newBlock(src []byte) *tree.Node {
	return &tree.Node{Type: "block", Children: []*tree.Node{leaf("stmt", 0, 1), leaf("stmt", 2, 1)}}
}

func TestBuildUnchangedTreeIsExact(t *testing.T) {
	src := []byte("a;b;")
	base, left, right := newBlock(src), newBlock(src), newBlock(src)
	baseTree := &tree.Tree{Revision: common.Base, Root: base, Source: src}
	leftTree := &tree.Tree{Revision: common.Left, Root: left, Source: src}
	rightTree := &tree.Tree{Revision: common.Right, Root: right, Source: src}

	classes := classmap.Build(baseTree, leftTree, rightTree,
		identityMatch(base, left), identityMatch(base, right), identityMatch(left, right))

	baseTriples := pcs.Encode(baseTree, classes, common.Base)
	leftTriples := pcs.Encode(leftTree, classes, common.Left)
	rightTriples := pcs.Encode(rightTree, classes, common.Right)
	set := pcs.Merge(baseTriples, leftTriples, rightTriples)

	profile := &langprofile.Profile{}
	res := Build(profile, baseTree, leftTree, rightTree, classes, set)
	require.Equal(t, KindExact, res.Root.Kind)
	require.Empty(t, res.DeleteModify)
}

func TestBuildDetectsDeleteModify(t *testing.T) {
	// Base: block[a, b, c]; Left deletes b; Right modifies b's text.
	a := leaf("stmt", 0, 1)
	b := leaf("stmt", 2, 1)
	c := leaf("stmt", 4, 1)
	base := &tree.Node{Type: "block", Children: []*tree.Node{a, b, c}}
	baseSrc := []byte("a;b;c;")
	baseTree := &tree.Tree{Revision: common.Base, Root: base, Source: baseSrc}

	la := leaf("stmt", 0, 1)
	lc := leaf("stmt", 2, 1)
	leftRoot := &tree.Node{Type: "block", Children: []*tree.Node{la, lc}}
	leftSrc := []byte("a;c;")
	leftTree := &tree.Tree{Revision: common.Left, Root: leftRoot, Source: leftSrc}

	ra := leaf("stmt", 0, 1)
	rb := leaf("stmt", 2, 1)
	rc := leaf("stmt", 4, 1)
	rightRoot := &tree.Node{Type: "block", Children: []*tree.Node{ra, rb, rc}}
	rightSrc := []byte("a;x;c;")
	rightTree := &tree.Tree{Revision: common.Right, Root: rightRoot, Source: rightSrc}

	baseLeft := match.New()
	baseLeft.Link(base, leftRoot)
	baseLeft.Link(a, la)
	baseLeft.Link(c, lc)

	baseRight := match.New()
	baseRight.Link(base, rightRoot)
	baseRight.Link(a, ra)
	baseRight.Link(b, rb)
	baseRight.Link(c, rc)

	leftRight := match.New()
	leftRight.Link(leftRoot, rightRoot)
	leftRight.Link(la, ra)
	leftRight.Link(lc, rc)

	classes := classmap.Build(baseTree, leftTree, rightTree, baseLeft, baseRight, leftRight)

	dm := (&builder{profile: &langprofile.Profile{}, base: baseTree, left: leftTree, right: rightTree, classes: classes, byLeader: map[*tree.Node]*Node{}}).deleteModifyCases()
	require.Len(t, dm, 1)
	require.Equal(t, common.Left, dm[0].DeletedBy)
	require.Equal(t, common.Right, dm[0].ModifierRev)
}

func TestCommutativeMergeAgreesOnBothOrders(t *testing.T) {
	// Base object has fields x, y. Left keeps x, y unchanged. Right adds
	// z after y, keeping x, y order. Both directions of the set-delta
	// merge yield x, y, z.
	fx := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 0, 1)}}
	fy := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 2, 1)}}
	base := &tree.Node{Type: "object", Children: []*tree.Node{fx, fy}}
	baseSrc := []byte("x:1,y:2")
	baseTree := &tree.Tree{Revision: common.Base, Root: base, Source: baseSrc}

	lfx := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 0, 1)}}
	lfy := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 2, 1)}}
	leftRoot := &tree.Node{Type: "object", Children: []*tree.Node{lfx, lfy}}
	leftSrc := []byte("x:1,y:2")
	leftTree := &tree.Tree{Revision: common.Left, Root: leftRoot, Source: leftSrc}

	rfx := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 0, 1)}}
	rfy := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 2, 1)}}
	rfz := &tree.Node{Type: "field", Field: "key", Children: []*tree.Node{leaf("ident", 4, 1)}}
	rightRoot := &tree.Node{Type: "object", Children: []*tree.Node{rfx, rfy, rfz}}
	rightSrc := []byte("x:1,y:2,z:3")
	rightTree := &tree.Tree{Revision: common.Right, Root: rightRoot, Source: rightSrc}

	baseLeft := match.New()
	baseLeft.Link(base, leftRoot)
	baseLeft.Link(fx, lfx)
	baseLeft.Link(fy, lfy)

	baseRight := match.New()
	baseRight.Link(base, rightRoot)
	baseRight.Link(fx, rfx)
	baseRight.Link(fy, rfy)

	leftRight := match.New()
	leftRight.Link(leftRoot, rightRoot)
	leftRight.Link(lfx, rfx)
	leftRight.Link(lfy, rfy)

	classes := classmap.Build(baseTree, leftTree, rightTree, baseLeft, baseRight, leftRight)

	baseTriples := pcs.Encode(baseTree, classes, common.Base)
	leftTriples := pcs.Encode(leftTree, classes, common.Left)
	rightTriples := pcs.Encode(rightTree, classes, common.Right)
	set := pcs.Merge(baseTriples, leftTriples, rightTriples)

	profile := &langprofile.Profile{
		CommutativeParents: map[string]langprofile.CommutativeParent{
			"object": {Separator: ","},
		},
	}
	res := Build(profile, baseTree, leftTree, rightTree, classes, set)
	require.Equal(t, KindMixed, res.Root.Kind)
	require.Len(t, res.Root.Children, 3)
}
