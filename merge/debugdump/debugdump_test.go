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

package debugdump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func TestWriteAllProducesOneDotFilePerPair(t *testing.T) {
	a := &tree.Node{Type: "stmt"}
	b := &tree.Node{Type: "stmt"}
	c := &tree.Node{Type: "stmt"}

	baseLeft := match.New()
	baseLeft.Link(a, b)
	baseRight := match.New()
	baseRight.Link(a, c)
	leftRight := match.New()
	leftRight.Link(b, c)

	dir := t.TempDir()
	err := WriteAll(dir, baseLeft, baseRight, leftRight)
	require.NoError(t, err)

	for _, name := range []string{"base-left.dot", "base-right.dot", "left-right.dot"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Contains(t, string(data), "graph matching {")
		require.Contains(t, string(data), "stmt")
	}
}

func TestRenderEmitsOneEdgePerMatch(t *testing.T) {
	a1 := &tree.Node{Type: "x"}
	b1 := &tree.Node{Type: "y"}
	a2 := &tree.Node{Type: "x"}
	b2 := &tree.Node{Type: "y"}

	m := match.New()
	m.Link(a1, b1)
	m.Link(a2, b2)

	dot := render(m, "base", "left")
	require.Equal(t, 2, countOccurrences(dot, "--"))
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
