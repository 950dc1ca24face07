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

// Package langprofile describes the read-only, per-language metadata
// table the merge engine's core treats as external input (spec section
// 4.9): which node types are atomic, which are commutative parents and
// under what grouping, which node types carry a signature for
// duplicate detection, which types should be flattened during tree
// post-processing, and which extra node types count as comments.
//
// Profiles are plain data. They never reference the tree package so
// that the language-profile registry can be constructed once at
// process startup and passed around by value, as spec section 4.9
// requires ("not singletons").
package langprofile

// SignatureStep is one step of a signature descendant-selection path
// (spec section 4.7): either the uniquely named field child ("field",
// Name) or the multiset of children of a given type in source order
// ("type", Name).
type SignatureStep struct {
	Kind string // "field" or "type"
	Name string
}

const (
	// StepField follows the uniquely-named field child.
	StepField = "field"
	// StepType collects the multiset of children of the named type.
	StepType = "type"
)

// SignaturePath is an ordered list of steps, walked from a commutative
// parent's child to gather the source text that makes up one part of
// its signature.
type SignaturePath []SignatureStep

// SignatureDef declares how to compute a node type's signature: the
// concatenation (in order) of the descendant text reached by each
// path.
type SignatureDef struct {
	Paths []SignaturePath
}

// CommutativeParent declares that a node type's children are
// semantically unordered and describes how the renderer should print
// separators between them and how the matcher/merger should restrict
// reordering to children of the same group.
type CommutativeParent struct {
	// Delimiter is the literal text printed before the first child and
	// after the last one is irrelevant here (that text belongs to the
	// parent's own non-child tokens); Delimiter documents it for the
	// renderer's indentation heuristics.
	Delimiter string
	// Separator is the default text inserted between two children when
	// no revision's source can be imitated (e.g. a newly added child),
	// used unless Groups/GroupSeparators override it.
	Separator string
	// Groups restricts which child types are mutually reorderable.
	// A nil map means all children of the parent are one group.
	// Keys are group names, values are the node types in that group.
	Groups map[string][]string
	// GroupSeparators overrides Separator for a specific group name.
	GroupSeparators map[string]string
}

// GroupOf returns the group name a child node type belongs to, and
// whether groups are declared at all for this parent.
func (c CommutativeParent) GroupOf(childType string) (string, bool) {
	if len(c.Groups) == 0 {
		return "", false
	}
	for group, types := range c.Groups {
		for _, t := range types {
			if t == childType {
				return group, true
			}
		}
	}
	return "", true
}

// SeparatorFor returns the separator to use between children of the
// given group (or the default Separator if the group has none
// declared, or groups are not declared at all).
func (c CommutativeParent) SeparatorFor(group string) string {
	if s, ok := c.GroupSeparators[group]; ok {
		return s
	}
	return c.Separator
}

// Profile is the full declarative table for one language.
type Profile struct {
	// Name is the profile's canonical name, e.g. "go", "json".
	Name string
	// FileNames lists exact file names recognized before extension
	// matching is attempted (e.g. "go.mod", "BUILD.bazel").
	FileNames []string
	// Extensions lists recognized file extensions, dot included.
	Extensions []string

	// AtomicTypes are node types whose children are never exposed to
	// the matcher or PCS encoder, even if the parser produced them.
	AtomicTypes map[string]bool
	// CommutativeParents maps a node type to its commutative-parent
	// declaration.
	CommutativeParents map[string]CommutativeParent
	// Signatures maps a node type to its signature definition.
	Signatures map[string]SignatureDef
	// FlattenTypes are binary-operator node types whose same-type
	// chains should be flattened into one n-ary node during
	// post-processing.
	FlattenTypes map[string]bool
	// ExtraCommentTypes are node types, beyond whatever the grammar
	// marks as "extra", that should be treated as attachable comments.
	ExtraCommentTypes map[string]bool
	// InjectionsQuery is an opaque tree-sitter injections query string.
	// The core never interprets it; consuming it to drive nested
	// sub-merges is out of scope (spec section 4.9).
	InjectionsQuery string
}

// IsAtomic reports whether nodeType is atomic under this profile.
func (p *Profile) IsAtomic(nodeType string) bool {
	return p.AtomicTypes != nil && p.AtomicTypes[nodeType]
}

// CommutativeParent returns the commutative-parent declaration for
// nodeType, if any.
func (p *Profile) CommutativeParent(nodeType string) (CommutativeParent, bool) {
	cp, ok := p.CommutativeParents[nodeType]
	return cp, ok
}

// Signature returns the signature definition for nodeType, if any.
func (p *Profile) Signature(nodeType string) (SignatureDef, bool) {
	sig, ok := p.Signatures[nodeType]
	return sig, ok
}

// ShouldFlatten reports whether nodeType's same-type chains should be
// flattened during post-processing.
func (p *Profile) ShouldFlatten(nodeType string) bool {
	return p.FlattenTypes != nil && p.FlattenTypes[nodeType]
}

// IsExtraComment reports whether nodeType should be attached as a
// comment beyond whatever the grammar's own "extra" rules mark.
func (p *Profile) IsExtraComment(nodeType string) bool {
	return p.ExtraCommentTypes != nil && p.ExtraCommentTypes[nodeType]
}
