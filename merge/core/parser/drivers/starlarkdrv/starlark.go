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

// Package starlarkdrv drives go.starlark.net/syntax to turn a plain
// Starlark script (as opposed to a Bazel BUILD file, handled by
// bazeldrv) into a merge-engine tree.Node forest, grounded on the
// teacher's analyzer/starlark package.
package starlarkdrv

import (
	"fmt"

	"go.starlark.net/syntax"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses Starlark source via go.starlark.net/syntax, which
// tracks line/column positions rather than byte offsets; spans are
// reconstructed the same way the YAML driver does.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	f, err := syntax.Parse("module.star", src, 0)
	if err != nil {
		return nil, fmt.Errorf("starlark: %w", err)
	}
	lineStarts := computeLineStarts(src)
	root := &tree.Node{Type: "module", Span: common.Span{Start: 0, End: len(src)}}
	for _, stmt := range f.Stmts {
		root.Children = append(root.Children, buildStmt(stmt, lineStarts))
	}
	return root, nil
}

func buildStmt(s syntax.Stmt, ls []int) *tree.Node {
	switch v := s.(type) {
	case *syntax.LoadStmt:
		n := &tree.Node{Type: "load_stmt", Span: spanOf(v, ls)}
		n.Children = append(n.Children, &tree.Node{Type: "string", Field: "module", Span: spanOf(v.Module, ls)})
		for _, sym := range v.From {
			n.Children = append(n.Children, &tree.Node{Type: "load_symbol", Span: spanOf(sym, ls)})
		}
		return n
	case *syntax.ExprStmt:
		if call, ok := v.X.(*syntax.CallExpr); ok {
			return buildCall(call, ls)
		}
		return &tree.Node{Type: "expr_stmt", Span: spanOf(v, ls)}
	case *syntax.AssignStmt:
		lhs := buildExpr(v.LHS, ls)
		rhs := buildExpr(v.RHS, ls)
		lhs.Field = "name"
		rhs.Field = "value"
		return &tree.Node{Type: "assign_stmt", Span: spanOf(v, ls), Children: []*tree.Node{lhs, rhs}}
	case *syntax.DefStmt:
		return &tree.Node{Type: "def_stmt", Span: spanOf(v, ls)}
	default:
		return &tree.Node{Type: "stmt", Span: spanOf(s, ls), Atomic: true}
	}
}

func buildCall(call *syntax.CallExpr, ls []int) *tree.Node {
	n := &tree.Node{Type: "rule_call", Span: spanOf(call, ls)}
	for _, arg := range call.Args {
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			val := buildExpr(bin.Y, ls)
			if ident, ok := bin.X.(*syntax.Ident); ok {
				val.Field = ident.Name
			}
			n.Children = append(n.Children, val)
			continue
		}
		n.Children = append(n.Children, buildExpr(arg, ls))
	}
	return n
}

func buildExpr(e syntax.Expr, ls []int) *tree.Node {
	switch v := e.(type) {
	case *syntax.Ident:
		return &tree.Node{Type: "identifier", Span: spanOf(v, ls)}
	case *syntax.Literal:
		return &tree.Node{Type: "literal", Span: spanOf(v, ls)}
	case *syntax.ListExpr:
		n := &tree.Node{Type: "list", Span: spanOf(v, ls)}
		for _, el := range v.List {
			n.Children = append(n.Children, buildExpr(el, ls))
		}
		return n
	case *syntax.CallExpr:
		return buildCall(v, ls)
	default:
		return &tree.Node{Type: "expr", Span: spanOf(e, ls), Atomic: true}
	}
}

func spanOf(n syntax.Node, ls []int) common.Span {
	start, end := n.Span()
	return common.Span{Start: offset(start, ls), End: offset(end, ls)}
}

func offset(p syntax.Position, ls []int) int {
	line := int(p.Line) - 1
	if line < 0 {
		line = 0
	}
	if line >= len(ls) {
		line = len(ls) - 1
	}
	if line < 0 {
		return 0
	}
	return ls[line] + int(p.Col) - 1
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
