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

// Package mergetree reconstructs a merged syntax tree from the
// candidate PCS triple set and the unified class map (spec section
// 4.5), applying the commutative-merge set-delta algorithm for
// commutative parents (4.5), the delete/modify validator (4.6) and the
// signature-uniqueness validator (4.7) as post-build passes.
package mergetree

import (
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Kind distinguishes the five shapes a reconstructed node can take.
type Kind int

const (
	// KindExact means every revision containing this class agrees on
	// its subtree (or only one revision has it at all); the original
	// node is reused verbatim, whitespace included.
	KindExact Kind = iota
	// KindMixed means the node's own identity is settled but its
	// children were individually reconstructed (possibly each Exact,
	// Mixed, Conflict or LineBasedMerge).
	KindMixed
	// KindConflict marks an unresolved structural conflict: either a
	// non-commutative order conflict, a commutative merge whose two
	// traversal directions disagreed, or a duplicate-signature
	// collision. Holds each side's raw child sequence.
	KindConflict
	// KindLineBasedMerge is a subtree rebuilt by falling back to
	// line-based three-way merge over the three revisions' source
	// spans for this class (spans may be empty if a side lacks it).
	KindLineBasedMerge
	// KindCommutativeSeparator is a synthetic, childless node inserted
	// between reconstructed children of a commutative parent to carry
	// literal separator text when no revision's source can be imitated
	// for it (e.g. a brand-new child with no adjacent neighbor).
	KindCommutativeSeparator
)

// Node is one node of the reconstructed merged tree.
type Node struct {
	Kind Kind
	Type string

	// Exact payload.
	ExactRev  common.Revision
	ExactOrig *tree.Node

	// Mixed payload.
	Children []*Node

	// Conflict payload.
	ConflictBase, ConflictLeft, ConflictRight []*Node
	// ConflictOrig identifies the node (from whichever revision is
	// available) the conflict replaces, for span/context purposes only.
	ConflictOrig *tree.Node

	// LineBasedMerge payload: per-revision byte spans (zero value means
	// the side has nothing to contribute, i.e. the class is absent
	// there), plus the diff3 line-merge already run over them with the
	// default BASE/LEFT/RIGHT labels. The renderer re-runs the merge
	// itself (over the same spans, sliced from the live source) when
	// custom conflict-marker labels are in effect; LBText/LBConflicts
	// are what a consumer with no reason to customize labels can emit
	// as-is.
	LBBase, LBLeft, LBRight                      common.Span
	LBBasePresent, LBLeftPresent, LBRightPresent bool
	LBText                                       []byte
	LBConflicts                                  bool

	// Separator payload.
	SeparatorText string
}

// DeleteModifyCase is one Base class deleted on exactly one side while
// the other side (the "modifier") changed something reachable from it
// — the input the delete/modify validator (4.6) resolves.
type DeleteModifyCase struct {
	// DeletedBy is the revision that removed the class (Left or Right).
	DeletedBy common.Revision
	// ModifierRev is the other non-Base revision.
	ModifierRev common.Revision
	// BaseNode is the class's Base-revision node.
	BaseNode *tree.Node
	// ModifierNode is the class's node in ModifierRev, if the class
	// still exists there in some form (always true by construction:
	// deletion means ModifierRev's node is present while DeletedBy's
	// is absent).
	ModifierNode *tree.Node
}
