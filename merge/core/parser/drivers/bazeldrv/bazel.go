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

// Package bazeldrv drives github.com/bazelbuild/buildtools/build to
// turn a BUILD/BUILD.bazel/WORKSPACE/.bzl file into a merge-engine
// tree.Node forest, grounded on the teacher's analyzer/bazel package
// (same library, used there to compare Bazel file ASTs).
package bazeldrv

import (
	"github.com/bazelbuild/buildtools/build"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses Bazel build files via buildtools/build, which tracks
// absolute byte offsets on every node's Position, so no span
// reconstruction is needed (unlike the YAML or Starlark drivers).
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	f, err := build.Parse("BUILD", src)
	if err != nil {
		return nil, err
	}
	root := &tree.Node{Type: "file", Span: common.Span{Start: 0, End: len(src)}}
	for _, stmt := range f.Stmt {
		root.Children = append(root.Children, buildNode(stmt))
	}
	return root, nil
}

func spanOf(e build.Expr) common.Span {
	start, end := e.Span()
	return common.Span{Start: start.Byte, End: end.Byte}
}

func buildNode(e build.Expr) *tree.Node {
	switch v := e.(type) {
	case *build.LoadStmt:
		n := &tree.Node{Type: "load_stmt", Span: spanOf(v)}
		mod := &tree.Node{Type: "string", Field: "module", Span: spanOf(v.Module)}
		n.Children = append(n.Children, mod)
		for _, sym := range v.From {
			n.Children = append(n.Children, &tree.Node{Type: "load_symbol", Span: spanOf(sym)})
		}
		return n
	case *build.CallExpr:
		n := &tree.Node{Type: "rule_call", Span: spanOf(v)}
		for _, arg := range v.List {
			child := buildArg(arg)
			n.Children = append(n.Children, child)
		}
		return n
	case *build.AssignExpr:
		lhs := buildNode(v.LHS)
		rhs := buildNode(v.RHS)
		lhs.Field = "name"
		rhs.Field = "value"
		return &tree.Node{Type: "assign_stmt", Span: spanOf(v), Children: []*tree.Node{lhs, rhs}}
	case *build.StringExpr:
		return &tree.Node{Type: "string", Span: spanOf(v)}
	case *build.Ident:
		return &tree.Node{Type: "identifier", Span: spanOf(v)}
	case *build.ListExpr:
		n := &tree.Node{Type: "list", Span: spanOf(v)}
		for _, el := range v.List {
			n.Children = append(n.Children, buildNode(el))
		}
		return n
	case *build.DictExpr:
		n := &tree.Node{Type: "dict", Span: spanOf(v)}
		for _, kv := range v.List {
			n.Children = append(n.Children, buildKV(kv))
		}
		return n
	default:
		return &tree.Node{Type: "expr", Span: spanOf(e), Atomic: true}
	}
}

// buildArg handles a call argument, which is either a plain positional
// expression or a "name = value" keyword argument represented as an
// *build.AssignExpr whose LHS names the field.
func buildArg(e build.Expr) *tree.Node {
	if assign, ok := e.(*build.AssignExpr); ok {
		name := "arg"
		if ident, ok := assign.LHS.(*build.Ident); ok {
			name = ident.Name
		}
		val := buildNode(assign.RHS)
		val.Field = name
		return val
	}
	return buildNode(e)
}

func buildKV(kv *build.KeyValueExpr) *tree.Node {
	key := buildNode(kv.Key)
	key.Field = "key"
	val := buildNode(kv.Value)
	val.Field = "value"
	return &tree.Node{Type: "dict_entry", Span: spanOf(kv), Children: []*tree.Node{key, val}}
}
