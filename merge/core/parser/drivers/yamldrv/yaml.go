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

// Package yamldrv drives gopkg.in/yaml.v3 to turn a YAML document into
// a merge-engine tree.Node forest, grounded on the teacher's
// analyzer/yaml package (same library, used there for AST-level
// equivalence checking).
package yamldrv

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses YAML documents via gopkg.in/yaml.v3's low-level Node
// API, which preserves comments, anchors and style but not byte
// offsets; spans are reconstructed from the library's line/column
// positions.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	lineStarts := computeLineStarts(src)
	if len(doc.Content) == 0 {
		return &tree.Node{Type: "document", Span: common.Span{Start: 0, End: len(src)}}, nil
	}
	child := buildNode(doc.Content[0], src, lineStarts)
	return &tree.Node{Type: "document", Span: child.Span, Children: []*tree.Node{child}}, nil
}

func buildNode(n *yaml.Node, src []byte, lineStarts []int) *tree.Node {
	switch n.Kind {
	case yaml.MappingNode:
		out := &tree.Node{Type: "mapping"}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := buildNode(n.Content[i], src, lineStarts)
			key.Field = "key"
			val := buildNode(n.Content[i+1], src, lineStarts)
			val.Field = "value"
			pair := &tree.Node{
				Type:     "mapping_pair",
				Span:     common.Span{Start: key.Span.Start, End: val.Span.End},
				Children: []*tree.Node{key, val},
			}
			out.Children = append(out.Children, pair)
		}
		out.Span = spanOfChildren(out.Children, offset(n, lineStarts))
		return out
	case yaml.SequenceNode:
		out := &tree.Node{Type: "sequence"}
		for _, c := range n.Content {
			out.Children = append(out.Children, buildNode(c, src, lineStarts))
		}
		out.Span = spanOfChildren(out.Children, offset(n, lineStarts))
		return out
	case yaml.AliasNode:
		start := offset(n, lineStarts)
		return &tree.Node{Type: "alias", Span: common.Span{Start: start, End: start + len(n.Value) + 1}}
	default: // yaml.ScalarNode
		start := offset(n, lineStarts)
		return &tree.Node{Type: "scalar", Span: common.Span{Start: start, End: start + len(n.Value)}}
	}
}

// spanOfChildren returns the smallest span covering every child, or a
// zero-length span at fallbackStart if there are none.
func spanOfChildren(children []*tree.Node, fallbackStart int) common.Span {
	if len(children) == 0 {
		return common.Span{Start: fallbackStart, End: fallbackStart}
	}
	start, end := children[0].Span.Start, children[0].Span.End
	for _, c := range children[1:] {
		if c.Span.Start < start {
			start = c.Span.Start
		}
		if c.Span.End > end {
			end = c.Span.End
		}
	}
	return common.Span{Start: start, End: end}
}

func offset(n *yaml.Node, lineStarts []int) int {
	line := n.Line - 1
	if line < 0 {
		line = 0
	}
	if line >= len(lineStarts) {
		line = len(lineStarts) - 1
	}
	return lineStarts[line] + n.Column - 1
}

func computeLineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
