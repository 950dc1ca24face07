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

// Package cuedrv drives cuelang.org/go's cue/ast and cue/parser
// packages to turn a CUE schema/config file into a merge-engine
// tree.Node forest, grounded on
// MARTe-Community-MARTe-Development-Tools's go.mod (the only CUE
// dependency in the example pack, used there for config schemas).
// Unlike several of the other drivers, cue/ast nodes track precise
// byte offsets (via cue/token.Pos.Offset and ast.End), so no span
// reconstruction heuristics are needed here.
package cuedrv

import (
	"fmt"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses CUE files via cuelang.org/go/cue/parser.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	f, err := parser.ParseFile("input.cue", src)
	if err != nil {
		return nil, fmt.Errorf("cue: %w", err)
	}
	root := &tree.Node{Type: "cue_file", Span: common.Span{Start: 0, End: len(src)}}
	for _, d := range f.Decls {
		if n := buildDecl(d); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

func spanOf(n ast.Node) common.Span {
	return common.Span{Start: n.Pos().Offset(), End: ast.End(n).Offset()}
}

func buildDecl(d ast.Decl) *tree.Node {
	switch v := d.(type) {
	case *ast.Field:
		n := &tree.Node{Type: "field", Span: spanOf(v)}
		if key := buildLabel(v.Label); key != nil {
			key.Field = "key"
			n.Children = append(n.Children, key)
		}
		if v.Value != nil {
			val := buildExpr(v.Value)
			val.Field = "value"
			n.Children = append(n.Children, val)
		}
		return n
	case *ast.EmbedDecl:
		return &tree.Node{Type: "embed", Span: spanOf(v)}
	case *ast.CommentGroup:
		return &tree.Node{Type: "comment", Span: spanOf(v), ExtraComment: true}
	default:
		return &tree.Node{Type: "decl", Span: spanOf(d), Atomic: true}
	}
}

func buildLabel(l ast.Label) *tree.Node {
	if e, ok := l.(ast.Expr); ok {
		return buildExpr(e)
	}
	return nil
}

func buildExpr(e ast.Expr) *tree.Node {
	switch v := e.(type) {
	case *ast.Ident:
		return &tree.Node{Type: "identifier", Span: spanOf(v)}
	case *ast.BasicLit:
		return &tree.Node{Type: "literal", Span: spanOf(v)}
	case *ast.StructLit:
		n := &tree.Node{Type: "struct", Span: spanOf(v)}
		for _, elt := range v.Elts {
			if c := buildDecl(elt); c != nil {
				n.Children = append(n.Children, c)
			}
		}
		return n
	case *ast.ListLit:
		n := &tree.Node{Type: "list", Span: spanOf(v)}
		for _, elt := range v.Elts {
			n.Children = append(n.Children, buildExpr(elt))
		}
		return n
	default:
		return &tree.Node{Type: "expr", Span: spanOf(e), Atomic: true}
	}
}
