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

package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func sp(start, n int) common.Span {
	return common.Span{Start: start, End: start + n}
}

func TestMatchIdenticalTrees(t *testing.T) {
	src := []byte("x+y")
	a := &tree.Node{Type: "binary_expression", Span: sp(0, 3), Children: []*tree.Node{
		{Type: "identifier", Span: sp(0, 1)},
		{Type: "identifier", Span: sp(2, 1)},
	}}
	b := &tree.Node{Type: "binary_expression", Span: sp(0, 3), Children: []*tree.Node{
		{Type: "identifier", Span: sp(0, 1)},
		{Type: "identifier", Span: sp(2, 1)},
	}}

	m := Match(a, b, src, src, true, nil)
	require.Equal(t, b, m.AtoB[a])
	require.Equal(t, b.Children[0], m.AtoB[a.Children[0]])
	require.Equal(t, b.Children[1], m.AtoB[a.Children[1]])
}

func TestMatchContainerReorderedChildren(t *testing.T) {
	srcA := []byte("a;b;c")
	srcB := []byte("c;a;b")
	a := &tree.Node{Type: "block", Span: sp(0, 5), Children: []*tree.Node{
		{Type: "stmt", Span: sp(0, 1)},
		{Type: "stmt", Span: sp(2, 1)},
		{Type: "stmt", Span: sp(4, 1)},
	}}
	b := &tree.Node{Type: "block", Span: sp(0, 5), Children: []*tree.Node{
		{Type: "stmt", Span: sp(0, 1)},
		{Type: "stmt", Span: sp(2, 1)},
		{Type: "stmt", Span: sp(4, 1)},
	}}

	m := Match(a, b, srcA, srcB, false, nil)
	// The pair is not base-involving, so phase A ignores subtrees below
	// height 2 and phase C does not run. The stmt leaves (height 0) are
	// therefore left unmatched even though each has identical text on
	// both sides, and phase B only considers non-leaf children.
	matchedLeaves := 0
	for _, c := range a.Children {
		if _, ok := m.AtoB[c]; ok {
			matchedLeaves++
		}
	}
	require.Equal(t, 0, matchedLeaves)
}

func TestMatchSeedIsRespected(t *testing.T) {
	src := []byte("x")
	a := &tree.Node{Type: "identifier", Span: sp(0, 1)}
	b := &tree.Node{Type: "identifier", Span: sp(0, 1)}
	seed := New()
	seed.Link(a, b)

	m := Match(a, b, src, src, true, seed)
	require.Same(t, b, m.AtoB[a])
}
