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

package classmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func mkTree(rev common.Revision, root *tree.Node) *tree.Tree {
	return &tree.Tree{Revision: rev, Root: root, Source: []byte("x")}
}

func TestBuildUnifiesMatchedTriple(t *testing.T) {
	b := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}
	l := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}
	r := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}

	bl := match.New()
	bl.Link(b, l)
	br := match.New()
	br.Link(b, r)

	cm := Build(mkTree(common.Base, b), mkTree(common.Left, l), mkTree(common.Right, r), bl, br, match.New())

	class := cm.ClassOf(b)
	require.NotNil(t, class)
	require.Same(t, b, class.Base)
	require.Same(t, l, class.Left)
	require.Same(t, r, class.Right)
	require.Same(t, b, class.Leader)
	require.Equal(t, common.Base, class.LeaderRev)
	require.Same(t, class, cm.ClassOf(l))
	require.Same(t, class, cm.ClassOf(r))
}

func TestBuildSplitsConflictingBaseMatches(t *testing.T) {
	base := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}
	left := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}
	right := &tree.Node{Type: "identifier", Span: common.Span{Start: 0, End: 1}}
	otherBase := &tree.Node{Type: "identifier", Span: common.Span{Start: 1, End: 2}}

	bl := match.New()
	bl.Link(base, left)
	br := match.New()
	br.Link(otherBase, right)
	lr := match.New()
	lr.Link(left, right) // would merge base and otherBase transitively; must be rejected

	baseTree := mkTree(common.Base, base)
	baseTree.Root = nil // placeholder root unused by AllNodes below
	_ = baseTree

	// Build directly over a synthetic multi-root base set by wrapping
	// both base nodes under one root so AllNodes sees both.
	wrappedBase := &tree.Node{Type: "root", Children: []*tree.Node{base, otherBase}}
	cm := Build(mkTree(common.Base, wrappedBase), mkTree(common.Left, left), mkTree(common.Right, right), bl, br, lr)

	require.NotSame(t, cm.ClassOf(base), cm.ClassOf(otherBase))
	require.Same(t, left, cm.ClassOf(base).Left)
	require.Nil(t, cm.ClassOf(otherBase).Left)
	require.Same(t, right, cm.ClassOf(otherBase).Right)
}
