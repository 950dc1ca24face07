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

package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

func TestMergeUnknownExtensionFallsBackToLineMerge(t *testing.T) {
	eng := NewEngine()
	base := []byte("line1\nline2\n")
	left := []byte("line1\nleft-change\n")
	right := []byte("line1\nright-change\n")

	result, err := eng.Merge("notes.unrecognized-ext", base, left, right, Options{})
	require.NoError(t, err)
	require.True(t, result.Conflicts)
	require.Equal(t, common.ExitConflict, result.ExitCode)
	require.Contains(t, string(result.Text), "<<<<<<< LEFT\n")
	require.Nil(t, result.BaseLeft)
}

func TestMergeUnknownExtensionCleanEditsDoNotConflict(t *testing.T) {
	eng := NewEngine()
	base := []byte("one\ntwo\nthree\n")
	left := []byte("ONE\ntwo\nthree\n")
	right := []byte("one\ntwo\nTHREE\n")

	result, err := eng.Merge("notes.unrecognized-ext", base, left, right, Options{})
	require.NoError(t, err)
	require.False(t, result.Conflicts)
	require.Equal(t, common.ExitClean, result.ExitCode)
	require.Equal(t, "ONE\ntwo\nTHREE\n", string(result.Text))
}

func TestExitCodeMapsConflictsToPolicy(t *testing.T) {
	require.Equal(t, common.ExitConflict, exitCode(true))
	require.Equal(t, common.ExitClean, exitCode(false))
}

func TestPickLineEndingIsMajorityVote(t *testing.T) {
	lf := &tree.Tree{LineEnding: "\n"}
	crlf := &tree.Tree{LineEnding: "\r\n"}

	require.Equal(t, "\n", pickLineEnding(lf, lf, crlf))
	require.Equal(t, "\r\n", pickLineEnding(crlf, crlf, lf))
}
