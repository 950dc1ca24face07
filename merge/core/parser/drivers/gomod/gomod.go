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

// Package gomod drives golang.org/x/mod/modfile to turn a go.mod file
// into a merge-engine tree.Node forest, grounded on the teacher's own
// analyzer/gomod package (which uses the same library to compare
// go.mod ASTs for semantic equivalence).
package gomod

import (
	"bytes"

	"golang.org/x/mod/modfile"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses go.mod files via golang.org/x/mod/modfile.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	f, err := modfile.Parse("go.mod", src, nil)
	if err != nil {
		return nil, err
	}

	root := &tree.Node{Type: "gomod_file", Span: spanOf(f.Syntax)}
	for _, stmt := range f.Syntax.Stmt {
		switch s := stmt.(type) {
		case *modfile.Line:
			root.Children = append(root.Children, lineNode(s, s.Token, src))
		case *modfile.LineBlock:
			root.Children = append(root.Children, blockNode(s, src))
		case *modfile.CommentBlock:
			root.Children = append(root.Children, &tree.Node{Type: "comment", Span: spanOf(s)})
		}
	}
	return root, nil
}

func spanOf(e modfile.Expr) common.Span {
	start, end := e.Span()
	return common.Span{Start: start.Byte, End: end.Byte}
}

// blockNode turns a parenthesized directive block ("require (...)")
// into a "<keyword>_block" node whose children are one
// "<keyword>_line" per inner Line, matching the langprofile.go.mod
// profile's commutative-parent declarations.
func blockNode(b *modfile.LineBlock, src []byte) *tree.Node {
	keyword := ""
	if len(b.Token) > 0 {
		keyword = b.Token[0]
	}
	n := &tree.Node{Type: keyword + "_block", Span: spanOf(b)}
	for _, line := range b.Line {
		n.Children = append(n.Children, lineNode(line, append([]string{keyword}, line.Token...), src))
	}
	return n
}

// lineNode turns a single directive line into a "<keyword>_line" node,
// with a "path" field child locating the module path token within the
// line's span (modfile does not track per-token byte offsets, so the
// token is located textually within the line's own source slice).
// tokens is the line's token list with the directive keyword first;
// modfile stores that keyword only on the block for lines inside a
// block, so blockNode prepends it.
func lineNode(l *modfile.Line, tokens []string, src []byte) *tree.Node {
	keyword := "directive"
	if len(tokens) > 0 {
		keyword = tokens[0]
	}
	sp := spanOf(l)
	n := &tree.Node{Type: keyword + "_line", Span: sp}
	if len(tokens) > 1 {
		if fieldSpan, ok := findToken(src, sp, tokens[1]); ok {
			n.Children = append(n.Children, &tree.Node{Type: "path", Field: "path", Span: fieldSpan})
		}
	}
	return n
}

// findToken locates the first occurrence of token within the slice of
// src covered by line, returning its absolute span.
func findToken(src []byte, line common.Span, token string) (common.Span, bool) {
	lineSrc := line.Slice(src)
	idx := bytes.Index(lineSrc, []byte(token))
	if idx < 0 {
		return common.Span{}, false
	}
	start := line.Start + idx
	return common.Span{Start: start, End: start + len(token)}, true
}
