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

package fallback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/common"
)

func TestMergeCleanNonOverlappingEdits(t *testing.T) {
	base := []byte("one\ntwo\nthree\n")
	left := []byte("ONE\ntwo\nthree\n")
	right := []byte("one\ntwo\nTHREE\n")

	res := Merge(base, left, right, common.Labels{})
	require.False(t, res.Conflicts)
	require.Equal(t, "ONE\ntwo\nTHREE\n", string(res.Text))
}

func TestMergeIdentityReturnsSameText(t *testing.T) {
	src := []byte("alpha\nbeta\ngamma\n")
	res := Merge(src, src, src, common.Labels{})
	require.False(t, res.Conflicts)
	require.Equal(t, string(src), string(res.Text))
}

func TestMergeOverlappingEditsConflict(t *testing.T) {
	base := []byte("line1\nline2\n")
	left := []byte("line1\nleft-change\n")
	right := []byte("line1\nright-change\n")

	res := Merge(base, left, right, common.Labels{})
	require.True(t, res.Conflicts)
	text := string(res.Text)
	require.Contains(t, text, "<<<<<<< LEFT\n")
	require.Contains(t, text, "left-change\n")
	require.Contains(t, text, "||||||| BASE\n")
	require.Contains(t, text, "line2\n")
	require.Contains(t, text, "=======\n")
	require.Contains(t, text, "right-change\n")
	require.Contains(t, text, ">>>>>>> RIGHT\n")
}

func TestMergeCustomLabels(t *testing.T) {
	base := []byte("a\n")
	left := []byte("b\n")
	right := []byte("c\n")
	res := Merge(base, left, right, common.Labels{Left: "mine", Right: "theirs"})
	require.Contains(t, string(res.Text), "<<<<<<< mine\n")
	require.Contains(t, string(res.Text), ">>>>>>> theirs\n")
}

func TestMergeSameChangeOnBothSidesIsNotAConflict(t *testing.T) {
	base := []byte("old\n")
	left := []byte("new\n")
	right := []byte("new\n")
	res := Merge(base, left, right, common.Labels{})
	require.False(t, res.Conflicts)
	require.Equal(t, "new\n", string(res.Text))
}
