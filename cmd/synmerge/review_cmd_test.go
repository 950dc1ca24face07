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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintDiffReportsNoDifferences(t *testing.T) {
	out := captureStdout(t, func() {
		printDiff("base", []byte("same\n"), []byte("same\n"))
	})
	require.Equal(t, "--- base: no differences from output\n", out)
}

func TestPrintDiffShowsAddedAndRemovedLines(t *testing.T) {
	out := captureStdout(t, func() {
		printDiff("left", []byte("one\ntwo\n"), []byte("one\nthree\n"))
	})
	require.Contains(t, out, "--- left vs output\n")
	require.Contains(t, out, "-two\n")
	require.Contains(t, out, "+three\n")
}
