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

// Package tree implements the post-processed syntax tree model described
// by the merge engine's data model: nodes carry a grammar type, an
// optional field label, a byte span into their revision's source, an
// ordered child list, and a handful of memoized properties (subtree
// hash, subtree size) used by the matcher and the mergers downstream.
package tree

import (
	"hash/fnv"

	"github.com/synmerge/synmerge/merge/common"
)

// Node is one node of a post-processed syntax tree. Trees are built
// bottom-up by a parser driver and are immutable once constructed: the
// matcher, class mapper and PCS encoder only ever read a Node, never
// mutate it, so a single Node may safely be referenced from several
// derived indexes at once.
type Node struct {
	// Type is the grammar node type, e.g. "binary_expression".
	Type string
	// Field is the grammar field label under which the parent exposes
	// this child (e.g. "left", "name"), or "" if the grammar does not
	// label this position.
	Field string
	// Span is this node's byte range in its revision's source.
	Span common.Span
	// Children is the ordered list of child nodes. Atomic nodes report
	// an empty Children list to the matcher even if the concrete
	// parser produced grandchildren for them.
	Children []*Node

	// Atomic, Commutative and ExtraComment mirror the classification
	// the language profile assigns to Type (see langprofile.Profile).
	Atomic      bool
	Commutative bool
	ExtraComment bool

	// FlattenOperators holds the source span of each operator token
	// between consecutive children, populated only for nodes produced
	// by flattening a chain of the same binary operator (see
	// FlattenBinaryChains). len(FlattenOperators) == len(Children)-1.
	FlattenOperators []common.Span

	hash     uint64
	hashSet  bool
	size     int
	sizeSet  bool
	sigKey   *SignatureKey
}

// SignatureKey is the structural key computed for a node under a
// commutative parent with a signature definition (spec section 4.7).
// It is a flat tuple of descendant source texts, one per declared path
// step, compared structurally (by value, not by identity).
type SignatureKey struct {
	Parts []string
}

// Equal reports whether two signature keys carry the same parts.
func (k *SignatureKey) Equal(other *SignatureKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	if len(k.Parts) != len(other.Parts) {
		return false
	}
	for i, p := range k.Parts {
		if p != other.Parts[i] {
			return false
		}
	}
	return true
}

// SigKey returns the node's cached signature key, or nil if one has
// never been computed for it (callers compute and attach it lazily via
// SetSigKey; the signature checks in mergetree and fastmode compute
// their keys directly and do not use this cache).
func (n *Node) SigKey() *SignatureKey { return n.sigKey }

// SetSigKey attaches a lazily computed signature key to the node.
func (n *Node) SetSigKey(k *SignatureKey) { n.sigKey = k }

// IsLeaf reports whether the node exposes no children to the matcher,
// either because the underlying grammar production has none or
// because the language profile marks its type atomic.
func (n *Node) IsLeaf() bool {
	return n.Atomic || len(n.Children) == 0
}

// Text returns the node's verbatim source slice.
func (n *Node) Text(src []byte) []byte {
	return n.Span.Slice(src)
}

// Hash returns the node's memoized subtree hash: a pure function of
// (Type, source text) for leaves, and of (Type, children hashes in
// order) for internal nodes. Two subtrees with the same hash are
// assumed isomorphic by the matcher's top-down phase; Hash never
// inspects source text for internal nodes so moving a subtree to a new
// byte range never changes its hash.
func (n *Node) Hash(src []byte) uint64 {
	if n.hashSet {
		return n.hash
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(n.Type))
	if n.IsLeaf() {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(n.Text(src))
	} else {
		for _, c := range n.Children {
			_, _ = h.Write([]byte{1})
			var buf [8]byte
			putUint64(buf[:], c.Hash(src))
			_, _ = h.Write(buf[:])
		}
	}
	n.hash = h.Sum64()
	n.hashSet = true
	return n.hash
}

// Size returns the memoized count of nodes in the subtree rooted at n,
// including n itself.
func (n *Node) Size() int {
	if n.sizeSet {
		return n.size
	}
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	n.size = total
	n.sizeSet = true
	return n.size
}

// Height returns the subtree's height (0 for a leaf).
func (n *Node) Height() int {
	if n.IsLeaf() {
		return 0
	}
	max := 0
	for _, c := range n.Children {
		if h := c.Height(); h > max {
			max = h
		}
	}
	return max + 1
}

// Descendants appends every node in the subtree rooted at n (n
// included) to out and returns the extended slice, in pre-order.
func (n *Node) Descendants(out []*Node) []*Node {
	out = append(out, n)
	for _, c := range n.Children {
		out = c.Descendants(out)
	}
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// Tree is a fully post-processed syntax tree for one revision.
type Tree struct {
	// Revision identifies which of Base/Left/Right this tree is.
	Revision common.Revision
	// Source holds the original bytes, already normalized to LF line
	// endings by the parser driver (see parser.Driver).
	Source []byte
	// Root is the tree's root node.
	Root *Node
	// LineEnding is the predominant line terminator observed in the
	// pre-normalization source ("\n" or "\r\n"), restored by the
	// renderer.
	LineEnding string
}

// AllNodes returns every node of the tree in pre-order.
func (t *Tree) AllNodes() []*Node {
	if t.Root == nil {
		return nil
	}
	return t.Root.Descendants(make([]*Node, 0, t.Root.Size()))
}
