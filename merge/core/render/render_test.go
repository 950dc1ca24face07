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

package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/mergetree"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func sp(start, n int) common.Span { return common.Span{Start: start, End: start + n} }

func TestRenderExactNodeReusesOriginalText(t *testing.T) {
	src := []byte("a;b;")
	orig := &tree.Node{Type: "block", Span: sp(0, 4)}
	root := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Left, ExactOrig: orig}

	out := Render(root, Sources{Left: src}, &langprofile.Profile{}, common.Labels{}, LineAligned, "\n")
	require.False(t, out.Conflicts)
	require.Equal(t, "a;b;", string(out.Text))
}

func TestRenderMixedInsertsCommutativeSeparator(t *testing.T) {
	profile := &langprofile.Profile{
		CommutativeParents: map[string]langprofile.CommutativeParent{
			"object": {Separator: ", "},
		},
	}
	// fx and fy come from different revisions, so the renderer cannot
	// imitate a same-revision adjacent gap and must fall back to the
	// profile's declared commutative separator.
	fx := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Base, ExactOrig: &tree.Node{Type: "field", Span: sp(0, 1)}, Type: "field"}
	fy := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Left, ExactOrig: &tree.Node{Type: "field", Span: sp(0, 1)}, Type: "field"}
	root := &mergetree.Node{Kind: mergetree.KindMixed, Type: "object", Children: []*mergetree.Node{fx, fy}}

	out := Render(root, Sources{Base: []byte("x"), Left: []byte("y")}, profile, common.Labels{}, LineAligned, "\n")
	require.False(t, out.Conflicts)
	require.Equal(t, "x, y", string(out.Text))
}

func TestRenderConflictLineAlignedEmitsMarkers(t *testing.T) {
	left := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Left, ExactOrig: &tree.Node{Type: "stmt", Span: sp(0, 6)}}
	right := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Right, ExactOrig: &tree.Node{Type: "stmt", Span: sp(0, 7)}}
	root := &mergetree.Node{
		Kind:          mergetree.KindConflict,
		ConflictLeft:  []*mergetree.Node{left},
		ConflictRight: []*mergetree.Node{right},
	}

	out := Render(root, Sources{Left: []byte("left;\n"), Right: []byte("right;\n")}, &langprofile.Profile{}, common.Labels{}, LineAligned, "\n")
	require.True(t, out.Conflicts)
	text := string(out.Text)
	require.Contains(t, text, "<<<<<<< LEFT\n")
	require.Contains(t, text, "left;\n")
	require.Contains(t, text, "=======\n")
	require.Contains(t, text, "right;\n")
	require.Contains(t, text, ">>>>>>> RIGHT\n")
}

func TestRenderLineBasedMergeUsesPrecomputedText(t *testing.T) {
	root := &mergetree.Node{
		Kind:         mergetree.KindLineBasedMerge,
		LBText:       []byte("resolved text\n"),
		LBConflicts:  false,
	}
	out := Render(root, Sources{}, &langprofile.Profile{}, common.Labels{}, LineAligned, "\n")
	require.False(t, out.Conflicts)
	require.Equal(t, "resolved text\n", string(out.Text))
}

func TestRenderLineBasedMergeReRunsWithCustomLabels(t *testing.T) {
	baseSrc := []byte("old\n")
	leftSrc := []byte("mine\n")
	rightSrc := []byte("theirs\n")
	root := &mergetree.Node{
		Kind:          mergetree.KindLineBasedMerge,
		LBBase:        sp(0, len(baseSrc)),
		LBBasePresent: true,
		LBLeft:        sp(0, len(leftSrc)),
		LBLeftPresent: true,
		LBRight:       sp(0, len(rightSrc)),
		LBRightPresent: true,
		LBText:        []byte("would have used BASE/LEFT/RIGHT labels\n"),
		LBConflicts:   true,
	}
	out := Render(root, Sources{Base: baseSrc, Left: leftSrc, Right: rightSrc},
		&langprofile.Profile{}, common.Labels{Left: "ours", Right: "theirs-label"}, LineAligned, "\n")
	require.True(t, out.Conflicts)
	text := string(out.Text)
	require.Contains(t, text, "<<<<<<< ours\n")
	require.Contains(t, text, ">>>>>>> theirs-label\n")
}

func TestRenderRestoresCRLFLineEnding(t *testing.T) {
	orig := &tree.Node{Type: "block", Span: sp(0, 9)}
	root := &mergetree.Node{Kind: mergetree.KindExact, ExactRev: common.Left, ExactOrig: orig}
	src := []byte("a;\nb;\nc;")

	out := Render(root, Sources{Left: src}, &langprofile.Profile{}, common.Labels{}, LineAligned, "\r\n")
	require.Equal(t, "a;\r\nb;\r\nc;", string(out.Text))
}
