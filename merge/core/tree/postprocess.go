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
	"bytes"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
)

// lineLeafType is the synthetic node type given to a single physical
// line produced by splitting a multi-line leaf.
const lineLeafType = "line"

// PostProcess performs, in order, the three transformations spec
// section 3 describes for a freshly parsed tree: classifying nodes per
// the language profile, splitting multi-line leaves into one child per
// physical line, attaching comment nodes to the syntactic element they
// annotate, and flattening chains of the same binary-operator node
// type into a single n-ary node. It returns the processed root, which
// may be a different node from root; the passes also rewrite the input
// tree's nodes in place (flags and child lists), so the input tree is
// not preserved.
func PostProcess(root *Node, src []byte, profile *langprofile.Profile) *Node {
	root = classify(root, profile)
	root = splitMultilineLeaves(root, src)
	root = attachComments(root, profile)
	root = flattenChains(root, profile)
	return root
}

// classify assigns Atomic/Commutative/ExtraComment per the profile,
// and truncates the children of atomic nodes so that neither the
// matcher nor the PCS encoder ever sees them (spec section 3's
// invariant: "atomic nodes have no children exposed to the matcher
// even if the underlying parse produced some").
func classify(n *Node, profile *langprofile.Profile) *Node {
	n.Atomic = profile.IsAtomic(n.Type)
	_, n.Commutative = profile.CommutativeParent(n.Type)
	n.ExtraComment = n.Type == "comment" || profile.IsExtraComment(n.Type)
	if n.Atomic {
		n.Children = nil
		return n
	}
	for i, c := range n.Children {
		n.Children[i] = classify(c, profile)
	}
	return n
}

// splitMultilineLeaves walks the tree and, for every leaf whose span
// crosses at least one line boundary, replaces it with an internal
// node of the same type whose children are one synthetic "line" leaf
// per physical line of its span (newlines excluded from every child
// span). This lets the matcher align leaves line-by-line even when the
// grammar produced one giant leaf for, say, a block comment or a
// triple-quoted string.
func splitMultilineLeaves(n *Node, src []byte) *Node {
	if n.IsLeaf() {
		lines := splitSpanByLines(n.Span, src)
		if len(lines) <= 1 {
			return n
		}
		children := make([]*Node, len(lines))
		for i, sp := range lines {
			children[i] = &Node{Type: lineLeafType, Span: sp, Atomic: true}
		}
		return &Node{
			Type:        n.Type,
			Field:       n.Field,
			Span:        n.Span,
			Children:    children,
			Commutative: n.Commutative,
			ExtraComment: n.ExtraComment,
		}
	}
	for i, c := range n.Children {
		n.Children[i] = splitMultilineLeaves(c, src)
	}
	return n
}

// splitSpanByLines returns one span per physical line within sp,
// excluding the line-terminating "\n" itself (source is assumed
// already normalized to LF by the parser driver).
func splitSpanByLines(sp common.Span, src []byte) []common.Span {
	var spans []common.Span
	start := sp.Start
	for i := sp.Start; i < sp.End; i++ {
		if src[i] == '\n' {
			spans = append(spans, common.Span{Start: start, End: i})
			start = i + 1
		}
	}
	spans = append(spans, common.Span{Start: start, End: sp.End})
	return spans
}

// attachComments moves each comment-classified child out of the plain
// sibling order and prepends it to the following non-comment sibling's
// own children (as a leading, field-less child), so that a comment
// travels with the statement or declaration it documents instead of
// occupying its own sibling slot that the matcher would have to align
// independently. A trailing run of comments with no following sibling
// is reattached to the parent itself.
func attachComments(n *Node, profile *langprofile.Profile) *Node {
	if n.IsLeaf() {
		return n
	}
	newChildren := make([]*Node, 0, len(n.Children))
	var pending []*Node
	for _, c := range n.Children {
		c = attachComments(c, profile)
		if c.ExtraComment {
			pending = append(pending, c)
			continue
		}
		if len(pending) > 0 {
			c.Children = append(append([]*Node{}, pending...), c.Children...)
			pending = nil
		}
		newChildren = append(newChildren, c)
	}
	newChildren = append(newChildren, pending...)
	n.Children = newChildren
	return n
}

// flattenChains recursively flattens chains of the same
// profile-declared binary-operator node type into a single n-ary node,
// preserving the original left-to-right child order and recording each
// operator token's span so the renderer can re-emit it verbatim
// (spec's design note on flattening and parser quirks).
func flattenChains(n *Node, profile *langprofile.Profile) *Node {
	for i, c := range n.Children {
		n.Children[i] = flattenChains(c, profile)
	}
	if !profile.ShouldFlatten(n.Type) || len(n.Children) < 3 {
		return n
	}
	left, op, right := n.Children[0], n.Children[1], n.Children[len(n.Children)-1]
	var operands []*Node
	var ops []common.Span
	if left.Type == n.Type && profile.ShouldFlatten(left.Type) {
		operands = append(operands, left.Children...)
		ops = append(ops, left.FlattenOperators...)
	} else {
		operands = append(operands, left)
	}
	ops = append(ops, op.Span)
	operands = append(operands, right)
	return &Node{
		Type:             n.Type,
		Field:            n.Field,
		Span:             n.Span,
		Children:         operands,
		FlattenOperators: ops,
		Commutative:      n.Commutative,
	}
}

// normalizeLineEndings converts src to LF-only line endings, returning
// the converted bytes and the predominant original terminator ("\n" or
// "\r\n"), used by the parser driver before invoking any concrete
// parser (spec section 4.1).
func normalizeLineEndings(src []byte) ([]byte, string) {
	crlf := bytes.Count(src, []byte("\r\n"))
	lfOnly := bytes.Count(src, []byte("\n")) - crlf
	predominant := "\n"
	if crlf > lfOnly {
		predominant = "\r\n"
	}
	return bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n")), predominant
}

// NormalizeLineEndings exposes normalizeLineEndings to parser drivers.
func NormalizeLineEndings(src []byte) ([]byte, string) { return normalizeLineEndings(src) }
