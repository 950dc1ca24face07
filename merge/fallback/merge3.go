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
	"bytes"
	"sort"

	"github.com/synmerge/synmerge/merge/common"
)

// hunk is one single-side edit against o, tagged with which side (0 =
// left/a, 2 = right/b) produced it; mirrors the diff3 literature's
// convention of numbering base's two neighbors 0 and 2, leaving 1 for
// base itself (a merged conflict region is a record with side -1).
// Hunks are ordered by their base offset alone.
type hunk [5]int // [oLhs, side, oDel, xLhs, xIns]

type hunkList []hunk

func (h hunkList) Len() int           { return len(h) }
func (h hunkList) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h hunkList) Less(i, j int) bool { return h[i][0] < h[j][0] }

// record is one segment of the merged output: side -1 marks a
// conflict, spanning [aLhs,aLhs+aLen) of a, [oLhs,oLhs+oLen) of o and
// [bLhs,bLhs+bLen) of b; side 0/1/2 marks an unconflicted copy of
// [xLhs,xLhs+xLen) from a, o or b respectively.
type record struct {
	side       int
	xLhs, xLen int
	aLhs, aLen int
	oLhs, oLen int
	bLhs, bLen int
}

// mergeIndices computes the diff3 hunk alignment between o's two
// independently-derived descendants a and b: every edit hunk from
// (o,a) and (o,b) is collected, sorted by its position in o, and
// adjacent/overlapping hunks from opposite sides are coalesced into a
// single conflict region. This is a direct, non-generic port of the
// algorithm's hunk-merging loop.
func mergeIndices(o, a, b []string) []record {
	m1 := diffLines(o, a)
	m2 := diffLines(o, b)

	var hunks hunkList
	for _, c := range m1 {
		hunks = append(hunks, hunk{c.O, 0, c.Del, c.X, c.Ins})
	}
	for _, c := range m2 {
		hunks = append(hunks, hunk{c.O, 2, c.Del, c.X, c.Ins})
	}
	sort.Stable(hunks)

	var out []record
	commonOffset := 0
	copyCommon := func(target int) {
		if target > commonOffset {
			out = append(out, record{side: 1, xLhs: commonOffset, xLen: target - commonOffset})
			commonOffset = target
		}
	}

	for idx := 0; idx < len(hunks); {
		first := idx
		h := hunks[idx]
		lhs := h[0]
		rhs := lhs + h[2]
		for idx < len(hunks)-1 {
			next := hunks[idx+1]
			if next[0] > rhs {
				break
			}
			if next[0]+next[2] > rhs {
				rhs = next[0] + next[2]
			}
			idx++
		}

		copyCommon(lhs)
		if first == idx {
			// Exactly one hunk touches this region: unambiguous,
			// whichever side produced it.
			if h[4] > 0 {
				out = append(out, record{side: h[1], xLhs: h[3], xLen: h[4]})
			}
		} else {
			aRegion := [2]int{len(a), -1}
			bRegion := [2]int{len(b), -1}
			oRegionA := [2]int{len(o), -1}
			oRegionB := [2]int{len(o), -1}
			for i := first; i <= idx; i++ {
				hh := hunks[i]
				oLhs, oRhs := hh[0], hh[0]+hh[2]
				xLhs, xRhs := hh[3], hh[3]+hh[4]
				if hh[1] == 0 {
					aRegion = minMax(aRegion, xLhs, xRhs)
					oRegionA = minMax(oRegionA, oLhs, oRhs)
				} else {
					bRegion = minMax(bRegion, xLhs, xRhs)
					oRegionB = minMax(oRegionB, oLhs, oRhs)
				}
			}
			aLhs, aRhs := project(aRegion, oRegionA, lhs, rhs)
			bLhs, bRhs := project(bRegion, oRegionB, lhs, rhs)
			out = append(out, record{
				side: -1,
				aLhs: aLhs, aLen: aRhs - aLhs,
				oLhs: lhs, oLen: rhs - lhs,
				bLhs: bLhs, bLen: bRhs - bLhs,
			})
		}
		commonOffset = rhs
		idx++
	}
	copyCommon(len(o))
	return out
}

func minMax(region [2]int, lhs, rhs int) [2]int {
	if lhs < region[0] {
		region[0] = lhs
	}
	if rhs > region[1] {
		region[1] = rhs
	}
	return region
}

// project maps a conflict region's extent in o ([lhs,rhs)) onto the
// corresponding side's coordinate space, correcting for the skew
// between the touched sub-region and the full merged region (the same
// correction the reference algorithm applies when several adjacent
// hunks on one side are coalesced with hunks from the other).
func project(side, oSide [2]int, lhs, rhs int) (int, int) {
	if oSide[1] < 0 {
		// This side contributed no hunk to the region; it is
		// unchanged there, so its span is simply [lhs,rhs) in its own
		// (identical-to-o) coordinates.
		return lhs, rhs
	}
	return side[0] + (lhs - oSide[0]), side[1] + (rhs - oSide[1])
}

// Result is the outcome of a line-based three-way merge.
type Result struct {
	// Text is the merged output, conflict markers included if any.
	Text []byte
	// Conflicts reports whether any conflict marker was emitted.
	Conflicts bool
}

// SegmentKind classifies one Segment of a three-way line merge.
type SegmentKind int

const (
	// SegCommon is text all three revisions agree on (copied from the
	// common hunk alignment, not necessarily untouched Base text).
	SegCommon SegmentKind = iota
	// SegLeft is text only Left changed; Base and Right match it.
	SegLeft
	// SegRight is text only Right changed; Base and Left match it.
	SegRight
	// SegAgreed is text where Left and Right both independently
	// produced the same result (a false conflict, spec 8's "no
	// spurious markers").
	SegAgreed
	// SegConflict is a true conflict: Base/Left/Right disagree and a
	// consumer must pick a rendering (markers, or one side per spec
	// 4.10 step 3's synthetic source reconstruction).
	SegConflict
)

// Segment is one contiguous region of the merged line sequence.
type Segment struct {
	Kind              SegmentKind
	Base, Left, Right []byte
}

// ComputeSegments runs the diff3 hunk alignment between base, left and
// right and classifies each resulting region, without yet deciding how
// to render it — the shared basis for both Merge's conflict-marker
// output and fastmode's synthetic source reconstruction (spec 4.10).
func ComputeSegments(base, left, right []byte) []Segment {
	o := splitLines(base)
	a := splitLines(left)
	b := splitLines(right)
	recs := mergeIndices(o, a, b)

	segs := make([]Segment, 0, len(recs))
	for _, r := range recs {
		switch r.side {
		case -1:
			aLines := a[r.aLhs : r.aLhs+r.aLen]
			bLines := b[r.bLhs : r.bLhs+r.bLen]
			if sameLines(aLines, bLines) {
				segs = append(segs, Segment{Kind: SegAgreed, Left: joinLines(aLines), Right: joinLines(bLines)})
				continue
			}
			segs = append(segs, Segment{
				Kind:  SegConflict,
				Base:  joinLines(o[r.oLhs : r.oLhs+r.oLen]),
				Left:  joinLines(aLines),
				Right: joinLines(bLines),
			})
		case 0:
			segs = append(segs, Segment{Kind: SegLeft, Left: joinLines(a[r.xLhs : r.xLhs+r.xLen])})
		case 1:
			segs = append(segs, Segment{Kind: SegCommon, Base: joinLines(o[r.xLhs : r.xLhs+r.xLen])})
		case 2:
			segs = append(segs, Segment{Kind: SegRight, Right: joinLines(b[r.xLhs : r.xLhs+r.xLen])})
		}
	}
	return segs
}

// Merge runs the diff3 line-merge of base/left/right and renders the
// result with Git-style conflict markers (spec section 4.8's
// line-aligned form, section 6's marker format, section 7's "line-
// based merge ... may itself contain conflict markers"). Labels are
// resolved to their BASE/LEFT/RIGHT defaults if left blank.
func Merge(base, left, right []byte, labels common.Labels) Result {
	labels = labels.Resolve()
	segs := ComputeSegments(base, left, right)

	var buf bytes.Buffer
	conflicts := false
	for _, s := range segs {
		switch s.Kind {
		case SegConflict:
			conflicts = true
			writeConflictMarker(&buf, "<<<<<<<", labels.Left)
			buf.Write(s.Left)
			writeConflictMarker(&buf, "|||||||", labels.Base)
			buf.Write(s.Base)
			writeConflictMarker(&buf, "=======", "")
			buf.Write(s.Right)
			writeConflictMarker(&buf, ">>>>>>>", labels.Right)
		case SegAgreed:
			buf.Write(s.Left)
		case SegLeft:
			buf.Write(s.Left)
		case SegCommon:
			buf.Write(s.Base)
		case SegRight:
			buf.Write(s.Right)
		}
	}
	return Result{Text: buf.Bytes(), Conflicts: conflicts}
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
	}
	return buf.Bytes()
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeConflictMarker(buf *bytes.Buffer, marker, label string) {
	buf.WriteString(marker)
	if label != "" {
		buf.WriteByte(' ')
		buf.WriteString(label)
	}
	buf.WriteByte('\n')
}

// splitLines splits src into physical lines, each retaining its
// trailing "\n" so the pieces concatenate back losslessly; a final
// line with no trailing terminator is kept as a short last element.
func splitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	parts := bytes.SplitAfter(src, []byte("\n"))
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}
