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

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
)

func TestExitStatusMapsConflictsToPolicy(t *testing.T) {
	require.Equal(t, common.ExitConflict, exitStatus(true))
	require.Equal(t, common.ExitClean, exitStatus(false))
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRunMergeUnknownExtensionFallsBackToLineMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	base := writeFile("f.unrecognized-ext", "line1\nline2\n")
	left := writeFile("f.left.unrecognized-ext", "line1\nleft-change\n")
	right := writeFile("f.right.unrecognized-ext", "line1\nright-change\n")

	exitCode = -1
	out := captureStdout(t, func() {
		err := runMerge(nil, []string{base, left, right})
		require.NoError(t, err)
	})

	require.Equal(t, common.ExitConflict, exitCode)
	require.Contains(t, out, "<<<<<<< LEFT\n")
	require.Contains(t, out, "right-change\n")
}

func TestRunMergeEngineDisableSkipsStructuredPath(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	base := writeFile("f.go", "one\ntwo\nthree\n")
	left := writeFile("f.left.go", "ONE\ntwo\nthree\n")
	right := writeFile("f.right.go", "one\ntwo\nTHREE\n")

	t.Setenv("ENGINE_DISABLE", "1")
	exitCode = -1
	out := captureStdout(t, func() {
		err := runMerge(nil, []string{base, left, right})
		require.NoError(t, err)
	})

	require.Equal(t, common.ExitClean, exitCode)
	require.Equal(t, "ONE\ntwo\nTHREE\n", out)
}
