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

// Package sqldrv drives github.com/xwb1989/sqlparser to turn a file of
// semicolon-separated SQL statements into a merge-engine tree.Node
// forest, grounded on the teacher's analyzer/sql package (same
// library, used there for SQL AST comparison). The library's grammar
// does not track byte offsets at all, so each statement's span is
// recovered by locating its own already-known source text within the
// file, and a statement's interesting sub-parts (e.g. its target
// table) are in turn located within that statement's own text.
package sqldrv

import (
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses a sequence of SQL statements via xwb1989/sqlparser.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	sqlText := string(src)
	pieces, err := sqlparser.SplitStatementToPieces(sqlText)
	if err != nil {
		return nil, fmt.Errorf("sql: %w", err)
	}

	root := &tree.Node{Type: "sql_file", Span: common.Span{Start: 0, End: len(src)}}
	cursor := 0
	for _, piece := range pieces {
		idx := strings.Index(sqlText[cursor:], piece)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		cursor = start + len(piece)

		stmt, err := sqlparser.Parse(piece)
		if err != nil {
			return nil, fmt.Errorf("sql: %w", err)
		}
		root.Children = append(root.Children, buildStmt(stmt, piece, start))
	}
	return root, nil
}

func buildStmt(stmt sqlparser.Statement, text string, start int) *tree.Node {
	n := &tree.Node{Type: fmt.Sprintf("%T", stmt), Span: common.Span{Start: start, End: start + len(text)}}
	if sel, ok := stmt.(*sqlparser.Select); ok && len(sel.From) > 0 {
		fromText := sqlparser.String(sel.From)
		if idx := strings.Index(text, fromText); idx >= 0 {
			n.Children = append(n.Children, &tree.Node{
				Type:  "table_list",
				Field: "from",
				Span:  common.Span{Start: start + idx, End: start + idx + len(fromText)},
			})
		}
	}
	return n
}
