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

// Package fallback implements the line-based three-way merge primitive
// spec sections 4.5, 4.6, 4.10 and 7 fall back to whenever the
// structured path cannot resolve a subtree (or an entire file): a
// diff3-style merge over physical lines, with Git-compatible conflict
// markers. The hunk-matching shape is ported from the diff3 algorithm
// described in Sanjeev Khanna, Keshav Kunal and Benjamin Pierce's "A
// Formal Investigation of Diff3" (as implemented by the epiclabs-io /
// antgroup-hugescm diff3 port retrieved alongside this spec), adapted
// from its generic []E form to plain string lines and to this engine's
// own Labels/Revision types.
package fallback

// change is one LCS-diff edit: Del lines of o starting at O, replaced
// by Ins lines of x starting at X.
type change struct {
	O, Del, X, Ins int
}

// diffLines computes the minimal edit script turning o into x by
// longest-common-subsequence over whole lines, the same technique
// match.refineContainer uses over subtree hashes: cheap, and exact for
// the line-granularity case this package only ever needs.
func diffLines(o, x []string) []change {
	n, m := len(o), len(x)
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if o[i] == x[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	// preferDelete decides, at a mismatch, whether to advance o (a
	// deletion) or x (an insertion): whichever preserves the longer
	// downstream common subsequence, falling back to forcing whichever
	// side still has lines left once the other is exhausted.
	preferDelete := func(i, j int) bool {
		if i >= n {
			return false
		}
		if j >= m {
			return true
		}
		return dp[i+1][j] >= dp[i][j+1]
	}

	var changes []change
	i, j := 0, 0
	for i < n || j < m {
		if i < n && j < m && o[i] == x[j] {
			i++
			j++
			continue
		}
		oStart, xStart := i, j
		for (i < n || j < m) && !(i < n && j < m && o[i] == x[j]) {
			if preferDelete(i, j) {
				i++
			} else {
				j++
			}
		}
		changes = append(changes, change{O: oStart, Del: i - oStart, X: xStart, Ins: j - xStart})
	}
	return changes
}

// Hunk is one two-way edit: Old is the text removed from the old
// revision, New is the text added in its place (either may be empty,
// for a pure insertion or pure deletion).
type Hunk struct {
	OldLine, NewLine int
	Old, New         []byte
}

// Diff computes the same LCS edit script diffLines uses internally,
// exported for callers that want a plain two-way diff (the review
// subcommand's inputs-vs-output display) without running a three-way
// merge over it.
func Diff(old, new_ []byte) []Hunk {
	o := splitLines(old)
	x := splitLines(new_)
	changes := diffLines(o, x)
	hunks := make([]Hunk, len(changes))
	for i, c := range changes {
		hunks[i] = Hunk{
			OldLine: c.O, NewLine: c.X,
			Old: joinLines(o[c.O : c.O+c.Del]),
			New: joinLines(x[c.X : c.X+c.Ins]),
		}
	}
	return hunks
}
