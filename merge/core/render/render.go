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

// Package render serializes a reconstructed merged tree (mergetree.Node)
// to text in one pass (spec section 4.8). It is the one place the five
// node kinds are all visited together, following the same Pre/Post
// visitor shape the teacher's core/mast walker uses, generalized here
// from a read-only traversal into one that accumulates output.
package render

import (
	"bytes"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/mergetree"
	"github.com/synmerge/synmerge/merge/fallback"
)

// Mode selects how Conflict nodes are rendered.
type Mode int

const (
	// LineAligned expands conflicts so markers sit on their own lines
	// and each side's text is a whole number of lines (spec 4.8's
	// default).
	LineAligned Mode = iota
	// Compact emits markers at the exact granularity of the conflict,
	// which may fall in the middle of an otherwise-shared line.
	Compact
)

// Sources gathers the three revisions' normalized source bytes, the
// only thing the renderer needs beyond the merged tree itself to
// re-imitate whitespace or re-run the line-based fallback with custom
// labels.
type Sources struct {
	Base, Left, Right []byte
}

// For returns the source bytes for rev.
func (s Sources) For(rev common.Revision) []byte {
	switch rev {
	case common.Base:
		return s.Base
	case common.Left:
		return s.Left
	case common.Right:
		return s.Right
	default:
		return nil
	}
}

// Result is the renderer's output.
type Result struct {
	// Text is the serialized merged file, with the original predominant
	// line terminator restored.
	Text []byte
	// Conflicts reports whether any conflict marker was emitted.
	Conflicts bool
}

// Render serializes root to text. lineEnding is the predominant
// terminator to restore ("\n" or "\r\n", see tree.NormalizeLineEndings);
// profile supplies commutative-parent separators; labels name the
// conflict markers; mode picks line-aligned vs compact conflict
// rendering.
func Render(root *mergetree.Node, src Sources, profile *langprofile.Profile, labels common.Labels, mode Mode, lineEnding string) Result {
	r := &renderer{src: src, profile: profile, labels: labels.Resolve(), mode: mode}
	r.write(root)
	text := r.buf.Bytes()
	if lineEnding == "\r\n" {
		text = bytes.ReplaceAll(text, []byte("\n"), []byte("\r\n"))
	}
	return Result{Text: text, Conflicts: r.conflicts}
}

type renderer struct {
	buf       bytes.Buffer
	src       Sources
	profile   *langprofile.Profile
	labels    common.Labels
	mode      Mode
	conflicts bool
}

func (r *renderer) write(n *mergetree.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case mergetree.KindExact:
		r.writeExact(n)
	case mergetree.KindMixed:
		r.writeMixed(n)
	case mergetree.KindConflict:
		r.writeConflict(n)
	case mergetree.KindLineBasedMerge:
		r.writeLineBasedMerge(n)
	case mergetree.KindCommutativeSeparator:
		r.writeSeparator(n.SeparatorText)
	}
}

// writeExact reuses the original source slice verbatim, including its
// internal whitespace, but re-indents every interior line by the
// difference between where the node's first line started in its
// source revision and where it starts in the output now — the general
// case of spec 4.8's "when moved content lands at a different
// indentation level, re-indent every nested line by the difference"
// (applied uniformly rather than gated on an explicit move flag, since
// the merged tree carries no per-node "was this moved" bit).
func (r *renderer) writeExact(n *mergetree.Node) {
	if n.ExactOrig == nil {
		return
	}
	text := n.ExactOrig.Text(r.src.For(n.ExactRev))
	if !bytes.ContainsRune(text, '\n') {
		r.buf.Write(text)
		return
	}
	srcCol := columnOf(r.src.For(n.ExactRev), n.ExactOrig.Span.Start)
	destCol := r.currentColumn()
	if srcCol == destCol {
		r.buf.Write(text)
		return
	}
	writeReindented(&r.buf, text, destCol-srcCol)
}

// writeMixed writes each child, imitating inter-child whitespace from
// whichever revision held both neighbors as adjacent Exact siblings
// (the practical, single-revision stand-in the ledger documents),
// falling back to the commutative-parent profile's declared separator.
// No gap is written next to a synthetic separator child, which carries
// its own separator text.
func (r *renderer) writeMixed(n *mergetree.Node) {
	var cp langprofile.CommutativeParent
	hasCP := false
	if r.profile != nil {
		cp, hasCP = r.profile.CommutativeParent(n.Type)
	}
	for i, child := range n.Children {
		if i > 0 && child.Kind != mergetree.KindCommutativeSeparator && n.Children[i-1].Kind != mergetree.KindCommutativeSeparator {
			r.writeGap(n.Children[i-1], child, cp, hasCP)
		}
		r.write(child)
	}
}

func (r *renderer) writeGap(prev, next *mergetree.Node, cp langprofile.CommutativeParent, hasCP bool) {
	if prev.Kind == mergetree.KindExact && next.Kind == mergetree.KindExact &&
		prev.ExactRev == next.ExactRev && prev.ExactOrig != nil && next.ExactOrig != nil &&
		prev.ExactOrig.Span.End <= next.ExactOrig.Span.Start {
		gap := r.src.For(prev.ExactRev)[prev.ExactOrig.Span.End:next.ExactOrig.Span.Start]
		r.buf.Write(gap)
		return
	}
	sep := " "
	if hasCP {
		group, _ := cp.GroupOf(next.Type)
		sep = cp.SeparatorFor(group)
	}
	r.writeSeparator(sep)
}

// writeSeparator emits literal separator text, adjusting any line it
// introduces to the indentation prevailing at the insertion point.
func (r *renderer) writeSeparator(sep string) {
	if !bytes.ContainsRune([]byte(sep), '\n') {
		r.buf.WriteString(sep)
		return
	}
	indent := r.currentLineIndent()
	parts := bytes.Split([]byte(sep), []byte("\n"))
	for i, p := range parts {
		if i > 0 {
			r.buf.WriteByte('\n')
			r.buf.Write(indent)
		}
		r.buf.Write(p)
	}
}

func (r *renderer) writeConflict(n *mergetree.Node) {
	left := r.renderSeq(n.ConflictLeft)
	base := r.renderSeq(n.ConflictBase)
	right := r.renderSeq(n.ConflictRight)

	if r.mode == LineAligned {
		left = ensureLineTerminated(left)
		base = ensureLineTerminated(base)
		right = ensureLineTerminated(right)
		if r.currentColumn() != 0 {
			r.buf.WriteByte('\n')
		}
	}

	r.conflicts = true
	writeMarker(&r.buf, "<<<<<<<", r.labels.Left)
	r.buf.Write(left)
	writeMarker(&r.buf, "|||||||", r.labels.Base)
	r.buf.Write(base)
	writeMarker(&r.buf, "=======", "")
	r.buf.Write(right)
	writeMarker(&r.buf, ">>>>>>>", r.labels.Right)
}

func (r *renderer) renderSeq(seq []*mergetree.Node) []byte {
	sub := &renderer{src: r.src, profile: r.profile, labels: r.labels, mode: r.mode}
	for _, n := range seq {
		sub.write(n)
	}
	return sub.buf.Bytes()
}

// writeLineBasedMerge emits the diff3 merge already computed at build
// time (builder.lineBasedFallback) when the requested labels match the
// defaults it used; otherwise it re-runs the merge over the same spans
// with the caller's labels, since a cheap line-level re-merge is far
// simpler than threading custom labels through the builder.
func (r *renderer) writeLineBasedMerge(n *mergetree.Node) {
	if r.labels == (common.Labels{}).Resolve() {
		r.buf.Write(n.LBText)
		if n.LBConflicts {
			r.conflicts = true
		}
		return
	}
	var base, left, right []byte
	if n.LBBasePresent {
		base = n.LBBase.Slice(r.src.Base)
	}
	if n.LBLeftPresent {
		left = n.LBLeft.Slice(r.src.Left)
	}
	if n.LBRightPresent {
		right = n.LBRight.Slice(r.src.Right)
	}
	res := fallback.Merge(base, left, right, r.labels)
	r.buf.Write(res.Text)
	if res.Conflicts {
		r.conflicts = true
	}
}

func writeMarker(buf *bytes.Buffer, marker, label string) {
	buf.WriteString(marker)
	if label != "" {
		buf.WriteByte(' ')
		buf.WriteString(label)
	}
	buf.WriteByte('\n')
}

func ensureLineTerminated(text []byte) []byte {
	if len(text) == 0 || text[len(text)-1] == '\n' {
		return text
	}
	return append(append([]byte{}, text...), '\n')
}

// currentColumn returns the number of bytes written since the last
// newline in the output buffer so far.
func (r *renderer) currentColumn() int {
	b := r.buf.Bytes()
	i := bytes.LastIndexByte(b, '\n')
	return len(b) - i - 1
}

// currentLineIndent returns the whitespace prefix of the output
// buffer's current (possibly partial) line.
func (r *renderer) currentLineIndent() []byte {
	b := r.buf.Bytes()
	i := bytes.LastIndexByte(b, '\n')
	line := b[i+1:]
	j := 0
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	return line[:j]
}

// columnOf returns the byte offset of pos within its own line of src.
func columnOf(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	i := bytes.LastIndexByte(src[:pos], '\n')
	return pos - i - 1
}

// writeReindented writes text (whose first line has already been
// positioned by the caller) to buf, shifting the leading whitespace of
// every line after the first by delta bytes (never below zero spaces).
func writeReindented(buf *bytes.Buffer, text []byte, delta int) {
	lines := bytes.Split(text, []byte("\n"))
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte('\n')
			l = reindentLine(l, delta)
		}
		buf.Write(l)
	}
}

func reindentLine(line []byte, delta int) []byte {
	j := 0
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	indent, rest := line[:j], line[j:]
	switch {
	case delta > 0:
		return append(append(append([]byte{}, indent...), bytes.Repeat([]byte{' '}, delta)...), rest...)
	case delta < 0:
		cut := -delta
		if cut > len(indent) {
			cut = len(indent)
		}
		return append(append([]byte{}, indent[cut:]...), rest...)
	default:
		return line
	}
}
