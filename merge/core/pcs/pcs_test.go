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

package pcs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/classmap"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func TestEncodeUnchangedTreeRoundTrips(t *testing.T) {
	root := &tree.Node{Type: "block", Children: []*tree.Node{
		{Type: "stmt", Span: common.Span{Start: 0, End: 1}},
		{Type: "stmt", Span: common.Span{Start: 2, End: 3}},
	}}
	tr := &tree.Tree{Revision: common.Base, Root: root, Source: []byte("a;b;")}
	cm := classmap.Build(tr, nil, nil, match.New(), match.New(), match.New())

	triples := Encode(tr, cm, common.Base)
	// (begin,s0), (s0,s1), (s1,end) => 3 triples for block's children
	// plus 2 virtual-root triples; the stmt leaves contribute none.
	require.Len(t, triples, 5)
}

func TestMergeDropsConflictingBaseTriple(t *testing.T) {
	parent := &tree.Node{Type: "block"}
	a := &tree.Node{Type: "stmt"}
	b := &tree.Node{Type: "stmt"}
	c := &tree.Node{Type: "stmt"}

	baseTriples := []Triple{{parent, Begin, a, common.Base}, {parent, a, End, common.Base}}
	leftTriples := []Triple{{parent, Begin, b, common.Left}, {parent, b, End, common.Left}}
	rightTriples := []Triple{{parent, Begin, c, common.Right}, {parent, c, End, common.Right}}

	set := Merge(baseTriples, leftTriples, rightTriples)
	// The Base (parent,Begin,a) triple conflicts with Left's
	// (parent,Begin,b) under rule (i): same (parent,child), different
	// successor. It must not survive.
	for _, tr := range set.Triples {
		require.False(t, tr.Rev == common.Base && tr.Child == Begin)
	}
	require.Len(t, set.DistinctSuccessors(parent, Begin), 2)
}
