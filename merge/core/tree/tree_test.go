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

package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
)

func TestHashIsoformismIgnoresPosition(t *testing.T) {
	src := []byte("ab")
	n1 := &Node{Type: "id", Span: common.Span{Start: 0, End: 1}}
	n2 := &Node{Type: "id", Span: common.Span{Start: 1, End: 2}}
	require.NotEqual(t, n1.Hash(src), n2.Hash(src), "leaves with different text should hash differently")

	same := []byte("xx")
	n3 := &Node{Type: "id", Span: common.Span{Start: 0, End: 1}}
	n4 := &Node{Type: "id", Span: common.Span{Start: 1, End: 2}}
	require.Equal(t, n3.Hash(same), n4.Hash(same), "leaves with identical text should hash identically regardless of position")
}

func TestHashInternalIgnoresSourceText(t *testing.T) {
	srcA := []byte("foo")
	srcB := []byte("bar")
	leafA := &Node{Type: "id", Span: common.Span{Start: 0, End: 3}}
	leafB := &Node{Type: "id", Span: common.Span{Start: 0, End: 3}}
	parentA := &Node{Type: "expr", Children: []*Node{leafA}}
	parentB := &Node{Type: "expr", Children: []*Node{leafB}}
	// different text, different hash: this is expected since leaf hash
	// depends on its own text even though the parent hash is purely a
	// function of child hashes.
	require.NotEqual(t, parentA.Hash(srcA), parentB.Hash(srcB))
}

func TestSplitMultilineLeaves(t *testing.T) {
	src := []byte("line one\nline two\nline three")
	leaf := &Node{Type: "comment", Span: common.Span{Start: 0, End: len(src)}}
	out := splitMultilineLeaves(leaf, src)
	require.Len(t, out.Children, 3)
	require.Equal(t, "line one", string(out.Children[0].Text(src)))
	require.Equal(t, "line two", string(out.Children[1].Text(src)))
	require.Equal(t, "line three", string(out.Children[2].Text(src)))
}

func TestAttachCommentsLeading(t *testing.T) {
	profile := &langprofile.Profile{}
	comment := &Node{Type: "comment", ExtraComment: true}
	stmt := &Node{Type: "statement"}
	parent := &Node{Type: "block", Children: []*Node{comment, stmt}}

	out := attachComments(parent, profile)
	require.Len(t, out.Children, 1, "the comment should be absorbed into the next sibling")
	require.Same(t, stmt, out.Children[0])
	require.Len(t, out.Children[0].Children, 1)
	require.True(t, out.Children[0].Children[0].ExtraComment)
}

func TestFlattenBinaryChain(t *testing.T) {
	profile := &langprofile.Profile{FlattenTypes: map[string]bool{"binary_expression": true}}
	a := &Node{Type: "id", Span: common.Span{Start: 0, End: 1}}
	plus1 := &Node{Type: "+", Span: common.Span{Start: 1, End: 2}}
	b := &Node{Type: "id", Span: common.Span{Start: 2, End: 3}}
	inner := &Node{Type: "binary_expression", Children: []*Node{a, plus1, b}}

	plus2 := &Node{Type: "+", Span: common.Span{Start: 3, End: 4}}
	c := &Node{Type: "id", Span: common.Span{Start: 4, End: 5}}
	outer := &Node{Type: "binary_expression", Children: []*Node{inner, plus2, c}}

	flattened := flattenChains(outer, profile)
	require.Equal(t, []*Node{a, b, c}, flattened.Children)
	require.Len(t, flattened.FlattenOperators, 2)
}

func TestClassifyAtomicDropsChildren(t *testing.T) {
	profile := &langprofile.Profile{AtomicTypes: map[string]bool{"string": true}}
	child := &Node{Type: "escape"}
	n := &Node{Type: "string", Children: []*Node{child}}
	out := classify(n, profile)
	require.True(t, out.Atomic)
	require.Empty(t, out.Children)
}
