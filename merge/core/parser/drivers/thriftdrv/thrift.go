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

// Package thriftdrv drives go.uber.org/thriftrw/ast to turn a .thrift
// IDL file into a merge-engine tree.Node forest, grounded on the
// teacher's analyzer/thrift package (same library, used there to
// compare Thrift IDL ASTs). thriftrw's AST only tracks each node's
// starting line, not a byte offset or length, so spans here are
// reconstructed at line granularity the same way go-protoparser's are
// reconstructed at offset granularity: each declaration's span runs
// from its own start line to the next declaration's start line.
package thriftdrv

import (
	"fmt"

	"go.uber.org/thriftrw/ast"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses Thrift IDL files via thriftrw/ast.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	prog, err := ast.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("thrift: %w", err)
	}
	lineStarts := computeLineStarts(src)

	var starts []int
	var nodes []*tree.Node
	for _, h := range prog.Headers {
		nodes = append(nodes, buildHeader(h))
		starts = append(starts, lineOffset(h.Line(), lineStarts))
	}
	for _, d := range prog.Definitions {
		nodes = append(nodes, buildDefinition(d))
		starts = append(starts, lineOffset(d.Line(), lineStarts))
	}
	closeSpans(nodes, starts, len(src))

	return &tree.Node{Type: "thrift_file", Span: common.Span{Start: 0, End: len(src)}, Children: nodes}, nil
}

func buildHeader(h ast.Header) *tree.Node {
	switch v := h.(type) {
	case *ast.Include:
		return &tree.Node{Type: "include"}
	case *ast.Namespace:
		n := &tree.Node{Type: "namespace"}
		n.Children = append(n.Children, &tree.Node{Type: "identifier", Field: "name"})
		_ = v
		return n
	default:
		return &tree.Node{Type: "header"}
	}
}

func buildDefinition(d ast.Definition) *tree.Node {
	switch v := d.(type) {
	case *ast.Struct:
		n := &tree.Node{Type: "struct"}
		n.Children = append(n.Children, &tree.Node{Type: "identifier", Field: "name"})
		var starts []int
		var fields []*tree.Node
		for _, f := range v.Fields {
			fields = append(fields, buildField(f))
			starts = append(starts, f.Line())
		}
		n.Children = append(n.Children, fields...)
		return n
	case *ast.Service:
		return &tree.Node{Type: "service"}
	case *ast.Enum:
		return &tree.Node{Type: "enum"}
	case *ast.Typedef:
		return &tree.Node{Type: "typedef"}
	case *ast.Constant:
		return &tree.Node{Type: "const"}
	default:
		return &tree.Node{Type: "definition"}
	}
}

func buildField(f *ast.Field) *tree.Node {
	n := &tree.Node{Type: "field"}
	n.Children = append(n.Children, &tree.Node{Type: "identifier", Field: "name"})
	return n
}

func closeSpans(nodes []*tree.Node, starts []int, end int) {
	for i, n := range nodes {
		n.Span.Start = starts[i]
		if i+1 < len(starts) {
			n.Span.End = starts[i+1]
		} else {
			n.Span.End = end
		}
	}
}

func lineOffset(line int, lineStarts []int) int {
	idx := line - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(lineStarts) {
		idx = len(lineStarts) - 1
	}
	return lineStarts[idx]
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
