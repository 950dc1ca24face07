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

// Package debugdump writes the three pairwise matchings computed
// during a merge (base-left, base-right, left-right) as DOT-format
// graph files, for the --debug-dump diagnostics spec section 6
// describes. The format is plain text assembled with fmt/strings; no
// example in the retrieved pack renders DOT graphs as a library
// concern (graphviz bindings do not appear anywhere in the corpus), so
// this is one of the few places the engine is deliberately
// stdlib-only.
package debugdump

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// WriteAll writes base-left.dot, base-right.dot and left-right.dot
// into dir.
func WriteAll(dir string, baseLeft, baseRight, leftRight *match.Matching) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("debugdump: %w", err)
	}
	files := []struct {
		name string
		m    *match.Matching
		la   string
		lb   string
	}{
		{"base-left.dot", baseLeft, "base", "left"},
		{"base-right.dot", baseRight, "base", "right"},
		{"left-right.dot", leftRight, "left", "right"},
	}
	for _, f := range files {
		dot := render(f.m, f.la, f.lb)
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(dot), 0o644); err != nil {
			return fmt.Errorf("debugdump: %s: %w", f.name, err)
		}
	}
	return nil
}

// render serializes a matching as a DOT graph: one node per matched
// tree.Node (labeled with its grammar type and a short id), one edge
// per matched pair. Graphviz itself never runs; this is the raw DOT
// text a caller can feed to it.
func render(m *match.Matching, labelA, labelB string) string {
	var b strings.Builder
	b.WriteString("graph matching {\n")
	b.WriteString("  rankdir=LR;\n")

	ids := map[*tree.Node]string{}
	next := 0
	idFor := func(n *tree.Node, side string) string {
		if id, ok := ids[n]; ok {
			return id
		}
		id := fmt.Sprintf("%s_%d", side, next)
		next++
		ids[n] = id
		return id
	}

	for a, bNode := range m.AtoB {
		idA := idFor(a, labelA)
		idB := idFor(bNode, labelB)
		fmt.Fprintf(&b, "  %q [label=%q];\n", idA, fmt.Sprintf("%s: %s", labelA, a.Type))
		fmt.Fprintf(&b, "  %q [label=%q];\n", idB, fmt.Sprintf("%s: %s", labelB, bNode.Type))
		fmt.Fprintf(&b, "  %q -- %q;\n", idA, idB)
	}
	b.WriteString("}\n")
	return b.String()
}
