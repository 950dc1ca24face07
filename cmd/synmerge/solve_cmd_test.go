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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSolveAlreadyResolvedFileIsReturnedAsIs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolved.txt")
	content := "no markers here\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	exitCode = -1
	out := captureStdout(t, func() {
		err := runSolve(nil, []string{path})
		require.NoError(t, err)
	})
	require.Equal(t, content, out)
	require.Equal(t, -1, exitCode)
}

func TestRunSolveUnresolvedConflictErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unresolved.txt")
	content := "<<<<<<< LEFT\nmine\n=======\ntheirs\n>>>>>>> RIGHT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	err := runSolve(nil, []string{path})
	require.Error(t, err)
}
