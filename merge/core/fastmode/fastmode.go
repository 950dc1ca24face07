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

// Package fastmode implements the coordinator described in spec
// section 4.10: it tries the cheap line-based merge first and only
// falls through to the structured path (parser, matcher, class mapper,
// PCS, merged-tree builder, renderer) when the line merge itself
// conflicts or reparsing it finds duplicate signatures. When it does
// fall through, it reconstructs synthetic Base/Left/Right sources from
// the line merge's conflict hunks and seeds the matcher with the
// unconflicted regions' byte-aligned nodes, so the structured path
// only has real work left to do inside the conflicted hunks.
package fastmode

import (
	"bytes"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/parser"
	"github.com/synmerge/synmerge/merge/core/tree"
	"github.com/synmerge/synmerge/merge/fallback"
)

// Outcome is what Coordinate decided: either the line-based merge was
// already good enough (Done), or the structured path should continue
// over the synthetic sources and seeded matchings.
type Outcome struct {
	Done      bool
	Text      []byte
	Conflicts bool

	SyntheticBase, SyntheticLeft, SyntheticRight []byte
	SeedBaseLeft, SeedBaseRight, SeedLeftRight    *match.Matching
}

// Coordinate runs spec 4.10's five steps.
func Coordinate(fileName string, base, left, right []byte, labels common.Labels, drivers *parser.Registry, profiles *langprofile.Registry) (*Outcome, error) {
	res := fallback.Merge(base, left, right, labels)
	if !res.Conflicts {
		reparsed, profile, err := drivers.ParseFile(fileName, res.Text, common.Base, profiles)
		if err == nil && !hasDuplicateSignatures(profile, reparsed.Root, reparsed.Source) {
			return &Outcome{Done: true, Text: res.Text, Conflicts: false}, nil
		}
	}
	return fromSegments(fileName, fallback.ComputeSegments(base, left, right), drivers, profiles)
}

// CoordinateMarked runs the same algorithm as Coordinate over a file
// that already contains Git-style conflict markers and no access to
// the original three revisions ("interactive solve mode", spec 4.10's
// closing paragraph): markers are parsed directly into the same
// Segment shape Coordinate derives from a fresh diff3 run, then fed
// through the identical synthetic-source/seed-matching machinery.
func CoordinateMarked(fileName string, content []byte, drivers *parser.Registry, profiles *langprofile.Registry) (*Outcome, error) {
	segs := ParseMarkers(content)
	for _, s := range segs {
		if s.Kind == fallback.SegConflict {
			return fromSegments(fileName, segs, drivers, profiles)
		}
	}
	return &Outcome{Done: true, Text: content, Conflicts: false}, nil
}

func fromSegments(fileName string, segs []fallback.Segment, drivers *parser.Registry, profiles *langprofile.Registry) (*Outcome, error) {
	synth, ranges := reconstructSynthetic(segs)

	baseTree, _, err := drivers.ParseFile(fileName, synth.Base, common.Base, profiles)
	if err != nil {
		return nil, err
	}
	leftTree, _, err := drivers.ParseFile(fileName, synth.Left, common.Left, profiles)
	if err != nil {
		return nil, err
	}
	rightTree, _, err := drivers.ParseFile(fileName, synth.Right, common.Right, profiles)
	if err != nil {
		return nil, err
	}

	seedBL, seedBR, seedLR := seedFromUnconflicted(baseTree, leftTree, rightTree, ranges)

	return &Outcome{
		SyntheticBase: synth.Base, SyntheticLeft: synth.Left, SyntheticRight: synth.Right,
		SeedBaseLeft: seedBL, SeedBaseRight: seedBR, SeedLeftRight: seedLR,
	}, nil
}

// ParseMarkers splits already git-conflict-marked content into the
// same Segment shape fallback.ComputeSegments produces, so solve mode
// can feed a hand-edited or externally-merged file back through the
// structured path without ever having the three original revisions.
// A segment with no "|||||||" line present carries an empty Base (the
// common two-way marker form).
func ParseMarkers(content []byte) []fallback.Segment {
	lines := bytes.SplitAfter(content, []byte("\n"))
	var segs []fallback.Segment
	var common_ bytes.Buffer
	flush := func() {
		if common_.Len() > 0 {
			segs = append(segs, fallback.Segment{Kind: fallback.SegCommon, Base: append([]byte(nil), common_.Bytes()...)})
			common_.Reset()
		}
	}
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !bytes.HasPrefix(line, []byte("<<<<<<<")) {
			common_.Write(line)
			i++
			continue
		}
		flush()
		i++
		var left, base, right bytes.Buffer
		for i < len(lines) && !bytes.HasPrefix(lines[i], []byte("|||||||")) && !bytes.HasPrefix(lines[i], []byte("=======")) {
			left.Write(lines[i])
			i++
		}
		if i < len(lines) && bytes.HasPrefix(lines[i], []byte("|||||||")) {
			i++
			for i < len(lines) && !bytes.HasPrefix(lines[i], []byte("=======")) {
				base.Write(lines[i])
				i++
			}
		}
		if i < len(lines) && bytes.HasPrefix(lines[i], []byte("=======")) {
			i++
			for i < len(lines) && !bytes.HasPrefix(lines[i], []byte(">>>>>>>")) {
				right.Write(lines[i])
				i++
			}
		}
		if i < len(lines) && bytes.HasPrefix(lines[i], []byte(">>>>>>>")) {
			i++
		}
		segs = append(segs, fallback.Segment{Kind: fallback.SegConflict, Base: base.Bytes(), Left: left.Bytes(), Right: right.Bytes()})
	}
	flush()
	return segs
}

// hasDuplicateSignatures runs a lighter version of spec 4.7's
// signature-uniqueness check directly over one parsed tree (rather
// than a reconstructed merged tree), the quick verification step 2
// needs before accepting a conflict-free line merge outright.
func hasDuplicateSignatures(profile *langprofile.Profile, root *tree.Node, src []byte) bool {
	if root == nil || profile == nil {
		return false
	}
	found := false
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if found || n == nil {
			return
		}
		if _, ok := profile.CommutativeParent(n.Type); ok && groupHasDuplicateKey(profile, n, src) {
			found = true
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return found
}

func groupHasDuplicateKey(profile *langprofile.Profile, n *tree.Node, src []byte) bool {
	seen := map[string]bool{}
	for _, c := range n.Children {
		sig, ok := profile.Signature(c.Type)
		if !ok {
			continue
		}
		key := signatureKey(c, sig, src)
		if key == "" {
			continue
		}
		key = c.Type + "\x00" + key
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func signatureKey(n *tree.Node, sig langprofile.SignatureDef, src []byte) string {
	parts := make([]string, 0, len(sig.Paths))
	for _, path := range sig.Paths {
		parts = append(parts, walkPath(n, path, src))
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\x00"
		}
		out += p
	}
	return out
}

func walkPath(n *tree.Node, path langprofile.SignaturePath, src []byte) string {
	cur := []*tree.Node{n}
	for _, step := range path {
		var next []*tree.Node
		for _, c := range cur {
			switch step.Kind {
			case langprofile.StepField:
				for _, ch := range c.Children {
					if ch.Field == step.Name {
						next = append(next, ch)
						break
					}
				}
			case langprofile.StepType:
				for _, ch := range c.Children {
					if ch.Type == step.Name {
						next = append(next, ch)
					}
				}
			}
		}
		cur = next
	}
	out := ""
	for i, c := range cur {
		if i > 0 {
			out += ","
		}
		out += string(c.Text(src))
	}
	return out
}

type synthetic struct {
	Base, Left, Right []byte
}

// segRange is one non-conflict segment's byte extent within one of the
// three synthetic sources; conflict segments contribute no range since
// their content differs per side by construction.
type segRange struct {
	start, end int
}

// reconstructSynthetic implements spec 4.10 step 3: unconflicted
// regions get the same resolved text appended to all three synthetic
// sources (so their spans align byte-for-byte), while a conflict hunk
// contributes Base's text to the synthetic Base, Left's to synthetic
// Left and Right's to synthetic Right.
func reconstructSynthetic(segs []fallback.Segment) (synthetic, [][3]segRange) {
	var s synthetic
	ranges := make([][3]segRange, 0, len(segs))
	for _, seg := range segs {
		switch seg.Kind {
		case fallback.SegConflict:
			s.Base = append(s.Base, seg.Base...)
			s.Left = append(s.Left, seg.Left...)
			s.Right = append(s.Right, seg.Right...)
		default:
			text := resolvedText(seg)
			r := [3]segRange{
				{len(s.Base), len(s.Base) + len(text)},
				{len(s.Left), len(s.Left) + len(text)},
				{len(s.Right), len(s.Right) + len(text)},
			}
			s.Base = append(s.Base, text...)
			s.Left = append(s.Left, text...)
			s.Right = append(s.Right, text...)
			ranges = append(ranges, r)
		}
	}
	return s, ranges
}

func resolvedText(seg fallback.Segment) []byte {
	switch seg.Kind {
	case fallback.SegCommon:
		return seg.Base
	case fallback.SegRight:
		return seg.Right
	default: // SegLeft, SegAgreed
		return seg.Left
	}
}

// seedFromUnconflicted builds the three pairwise seed matchings by
// linking, within each unconflicted region, nodes whose span lies
// entirely inside that region and falls at the same relative offset in
// two of the synthetic trees — valid because the region's bytes are
// identical across all three synthetic sources by construction.
func seedFromUnconflicted(base, left, right *tree.Tree, ranges [][3]segRange) (bl, br, lr *match.Matching) {
	bl, br, lr = match.New(), match.New(), match.New()

	baseByKey := indexByRegion(base.Root, ranges, 0)
	leftByKey := indexByRegion(left.Root, ranges, 1)
	rightByKey := indexByRegion(right.Root, ranges, 2)

	for key, baseNodes := range baseByKey {
		leftNodes := leftByKey[key]
		rightNodes := rightByKey[key]
		for i := 0; i < len(baseNodes) && i < len(leftNodes); i++ {
			bl.Link(baseNodes[i], leftNodes[i])
		}
		for i := 0; i < len(baseNodes) && i < len(rightNodes); i++ {
			br.Link(baseNodes[i], rightNodes[i])
		}
	}
	for key, leftNodes := range leftByKey {
		rightNodes := rightByKey[key]
		for i := 0; i < len(leftNodes) && i < len(rightNodes); i++ {
			lr.Link(leftNodes[i], rightNodes[i])
		}
	}
	return bl, br, lr
}

type regionKey struct {
	seg, relStart, relEnd int
}

// indexByRegion buckets every node of root whose span lies entirely
// within one of ranges' side-th extent, keyed by (segment index,
// offset of the node's start relative to the region's start, offset of
// the node's end relative to the region's start).
func indexByRegion(root *tree.Node, ranges [][3]segRange, side int) map[regionKey][]*tree.Node {
	out := map[regionKey][]*tree.Node{}
	if root == nil {
		return out
	}
	nodes := root.Descendants(nil)
	for _, n := range nodes {
		for segIdx, r := range ranges {
			rg := r[side]
			if n.Span.Start >= rg.start && n.Span.End <= rg.end {
				k := regionKey{seg: segIdx, relStart: n.Span.Start - rg.start, relEnd: n.Span.End - rg.start}
				out[k] = append(out[k], n)
				break
			}
		}
	}
	return out
}
