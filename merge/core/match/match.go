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

// Package match computes a partial bijection between the nodes of two
// syntax trees, the building block the class mapper unifies into
// per-node equivalence classes across all three revisions. The
// algorithm is the three-phase tree-alignment heuristic: top-down
// isomorphic-subtree matching, bottom-up container matching by
// descendant overlap, and (for pairs involving the base revision) a
// tree-edit-distance refinement pass within already-matched
// containers. It never fails: an unmatched node simply has no entry in
// the returned Matching.
package match

import (
	"sort"

	"github.com/synmerge/synmerge/merge/core/tree"
)

const (
	topDownMinHeight        = 2
	topDownMinHeightBase    = 1
	bottomUpThreshold       = 0.5
	bottomUpThresholdBase   = 0.3
)

// Matching is a partial, injective correspondence between the nodes of
// two trees, arbitrarily labeled A and B by the caller.
type Matching struct {
	AtoB map[*tree.Node]*tree.Node
	BtoA map[*tree.Node]*tree.Node
}

// New returns an empty matching, suitable as a fast-mode seed.
func New() *Matching {
	return &Matching{AtoB: map[*tree.Node]*tree.Node{}, BtoA: map[*tree.Node]*tree.Node{}}
}

// Link records a ↔ b, unless either side is already matched.
func (m *Matching) Link(a, b *tree.Node) {
	if _, ok := m.AtoB[a]; ok {
		return
	}
	if _, ok := m.BtoA[b]; ok {
		return
	}
	m.AtoB[a] = b
	m.BtoA[b] = a
}

// Match runs the three-phase alignment between trees rooted at a and
// b, whose source revisions are srcA and srcB. baseInvolving relaxes
// the top-down height floor and bottom-up similarity threshold and
// enables phase C, per the pair's role (Base-Left and Base-Right are
// base-involving; Left-Right is not). seed, if non-nil, pre-populates
// matched pairs (fast-mode seeding, see fastmode package) that phase A
// treats as already resolved.
func Match(a, b *tree.Node, srcA, srcB []byte, baseInvolving bool, seed *Matching) *Matching {
	m := seed
	if m == nil {
		m = New()
	}

	minHeight := topDownMinHeight
	tau := bottomUpThreshold
	if baseInvolving {
		minHeight = topDownMinHeightBase
		tau = bottomUpThresholdBase
	}

	phaseTopDown(m, a, b, srcA, srcB, minHeight)
	phaseBottomUp(m, a, b, tau)
	if baseInvolving {
		phaseRefine(m, a, b, srcA, srcB)
	}
	return m
}

// phaseTopDown matches whole isomorphic subtrees, processing height
// buckets from deepest to shallowest so a match at a given height never
// depends on a shallower one.
func phaseTopDown(m *Matching, a, b *tree.Node, srcA, srcB []byte, minHeight int) {
	nodesA := a.Descendants(nil)
	nodesB := b.Descendants(nil)

	maxHeight := 0
	for _, n := range nodesA {
		if h := n.Height(); h > maxHeight {
			maxHeight = h
		}
	}
	for _, n := range nodesB {
		if h := n.Height(); h > maxHeight {
			maxHeight = h
		}
	}

	for h := maxHeight; h >= minHeight; h-- {
		byHashA := map[uint64][]*tree.Node{}
		for _, n := range nodesA {
			if n.Height() != h {
				continue
			}
			if _, matched := m.AtoB[n]; matched {
				continue
			}
			hv := n.Hash(srcA)
			byHashA[hv] = append(byHashA[hv], n)
		}
		byHashB := map[uint64][]*tree.Node{}
		for _, n := range nodesB {
			if n.Height() != h {
				continue
			}
			if _, matched := m.BtoA[n]; matched {
				continue
			}
			hv := n.Hash(srcB)
			byHashB[hv] = append(byHashB[hv], n)
		}

		for hv, listA := range byHashA {
			listB, ok := byHashB[hv]
			if !ok || len(listB) == 0 {
				continue
			}
			pairUp(m, listA, listB, srcA, srcB)
		}
	}
}

// pairUp resolves same-hash candidate lists on both sides. The common
// case (exactly one occurrence per side) is an unconditional match.
// With duplicates, prefer pairs whose parents are already matched,
// breaking remaining ties by earliest source position.
func pairUp(m *Matching, listA, listB []*tree.Node, srcA, srcB []byte) {
	if len(listA) == 1 && len(listB) == 1 {
		matchSubtree(m, listA[0], listB[0], srcA, srcB)
		return
	}

	used := map[*tree.Node]bool{}
	type cand struct {
		a, b            *tree.Node
		parentsAgree    bool
	}
	var cands []cand
	for _, a := range listA {
		for _, b := range listB {
			cands = append(cands, cand{a, b, parentAlreadyMatched(m, a, b)})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].parentsAgree != cands[j].parentsAgree {
			return cands[i].parentsAgree
		}
		if cands[i].a.Span.Start != cands[j].a.Span.Start {
			return cands[i].a.Span.Start < cands[j].a.Span.Start
		}
		return cands[i].b.Span.Start < cands[j].b.Span.Start
	})
	for _, c := range cands {
		if used[c.a] || used[c.b] {
			continue
		}
		if _, ok := m.AtoB[c.a]; ok {
			continue
		}
		if _, ok := m.BtoA[c.b]; ok {
			continue
		}
		matchSubtree(m, c.a, c.b, srcA, srcB)
		used[c.a], used[c.b] = true, true
	}
}

// parentAlreadyMatched does not track parent pointers (Node has none,
// per the arena model), so this is computed by the caller's traversal
// context in practice; at top-down matching time no parent link is
// available, so this conservatively reports false, and ties fall
// through to the position rule. Retained as a named predicate so a
// future parent-indexed traversal can sharpen it without changing
// pairUp's structure.
func parentAlreadyMatched(_ *Matching, _, _ *tree.Node) bool {
	return false
}

// matchSubtree links a and b and recursively links every descendant
// pair in lockstep, since an equal subtree hash guarantees identical
// structure (and, for leaves, identical text).
func matchSubtree(m *Matching, a, b *tree.Node, srcA, srcB []byte) {
	m.Link(a, b)
	if len(a.Children) != len(b.Children) {
		return
	}
	for i := range a.Children {
		matchSubtree(m, a.Children[i], b.Children[i], srcA, srcB)
	}
}

// phaseBottomUp matches containers (non-leaf, unmatched node pairs)
// whose enclosing parents are already matched, or who are both tree
// roots. It proceeds breadth-first from the roots so a parent pair's
// resolution always precedes its children's candidacy.
func phaseBottomUp(m *Matching, a, b *tree.Node, tau float64) {
	if !a.IsLeaf() && !b.IsLeaf() && a.Type == b.Type && containerSimilarity(m, a, b) >= tau {
		m.Link(a, b)
	}
	type pair struct{ pu, pv *tree.Node }
	queue := []pair{{a, b}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		var candA, candB []*tree.Node
		for _, c := range p.pu.Children {
			if c.IsLeaf() {
				continue
			}
			if _, ok := m.AtoB[c]; !ok {
				candA = append(candA, c)
			}
		}
		for _, c := range p.pv.Children {
			if c.IsLeaf() {
				continue
			}
			if _, ok := m.BtoA[c]; !ok {
				candB = append(candB, c)
			}
		}

		type scored struct {
			a, b  *tree.Node
			score float64
		}
		var scores []scored
		for _, ca := range candA {
			for _, cb := range candB {
				if ca.Type != cb.Type {
					continue
				}
				sim := containerSimilarity(m, ca, cb)
				if sim >= tau {
					scores = append(scores, scored{ca, cb, sim})
				}
			}
		}
		sort.SliceStable(scores, func(i, j int) bool {
			if scores[i].score != scores[j].score {
				return scores[i].score > scores[j].score
			}
			si, sj := scores[i].a.Size(), scores[j].a.Size()
			if si != sj {
				return si < sj
			}
			return scores[i].a.Span.Start < scores[j].a.Span.Start
		})
		usedA, usedB := map[*tree.Node]bool{}, map[*tree.Node]bool{}
		for _, s := range scores {
			if usedA[s.a] || usedB[s.b] {
				continue
			}
			m.Link(s.a, s.b)
			usedA[s.a], usedB[s.b] = true, true
		}

		for _, ca := range p.pu.Children {
			if cb, ok := m.AtoB[ca]; ok && !ca.IsLeaf() {
				queue = append(queue, pair{ca, cb})
			}
		}
	}
}

// containerSimilarity is the dice-style overlap ratio of already
// matched descendant pairs over the larger side's descendant count.
func containerSimilarity(m *Matching, a, b *tree.Node) float64 {
	descA := a.Descendants(nil)
	bSet := map[*tree.Node]bool{}
	for _, d := range b.Descendants(nil) {
		bSet[d] = true
	}
	count := 0
	for _, da := range descA {
		if db, ok := m.AtoB[da]; ok && bSet[db] {
			count++
		}
	}
	max := a.Size()
	if b.Size() > max {
		max = b.Size()
	}
	if max == 0 {
		return 0
	}
	return float64(count) / float64(max)
}

// phaseRefine runs within every matched container pair a sequence
// alignment (a practical stand-in for full tree-edit distance, per
// spec: "add any zero-cost-or-near-zero alignments") over the
// unmatched descendants' subtree hashes, in pre-order, and links every
// aligned equal-hash pair it finds. It is only invoked for
// Base-involving matchings.
func phaseRefine(m *Matching, a, b *tree.Node, srcA, srcB []byte) {
	var containers [][2]*tree.Node
	var walk func(u, v *tree.Node)
	walk = func(u, v *tree.Node) {
		if u.IsLeaf() || v.IsLeaf() {
			return
		}
		containers = append(containers, [2]*tree.Node{u, v})
		for _, cu := range u.Children {
			if cv, ok := m.AtoB[cu]; ok {
				walk(cu, cv)
			}
		}
	}
	walk(a, b)

	for _, c := range containers {
		refineContainer(m, c[0], c[1], srcA, srcB)
	}
}

// refineContainer aligns two already-matched containers' unmatched
// descendants by longest-common-subsequence over subtree hash, the
// cheapest form of edit-distance alignment: equal hashes cost zero to
// align, so the LCS recovers every zero-cost correspondence the
// earlier phases missed due to reordering.
func refineContainer(m *Matching, u, v *tree.Node, srcA, srcB []byte) {
	var seqA, seqB []*tree.Node
	for _, n := range u.Descendants(nil) {
		if _, ok := m.AtoB[n]; !ok {
			seqA = append(seqA, n)
		}
	}
	for _, n := range v.Descendants(nil) {
		if _, ok := m.BtoA[n]; !ok {
			seqB = append(seqB, n)
		}
	}
	if len(seqA) == 0 || len(seqB) == 0 {
		return
	}

	hashA := make([]uint64, len(seqA))
	for i, n := range seqA {
		hashA[i] = n.Hash(srcA)
	}
	hashB := make([]uint64, len(seqB))
	for i, n := range seqB {
		hashB[i] = n.Hash(srcB)
	}

	// Standard LCS DP.
	n, mLen := len(seqA), len(seqB)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, mLen+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := mLen - 1; j >= 0; j-- {
			if hashA[i] == hashB[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	i, j := 0, 0
	for i < n && j < mLen {
		switch {
		case hashA[i] == hashB[j]:
			matchSubtree(m, seqA[i], seqB[j], srcA, srcB)
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
}
