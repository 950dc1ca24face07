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

// Package merge wires the engine's pipeline end to end (spec section
// 2's control flow): fast-mode coordinator (optional) → parser driver
// (x3) → matcher (x3 pairs) → class mapper → PCS encode/merge →
// merged-tree builder (with its validators) → renderer, applying spec
// section 7's error-kind policy table at each step that can fail.
package merge

import (
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/classmap"
	"github.com/synmerge/synmerge/merge/core/fastmode"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/match"
	"github.com/synmerge/synmerge/merge/core/mergetree"
	"github.com/synmerge/synmerge/merge/core/parser"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/bazeldrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/cuedrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/gomod"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/protodrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/sqldrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/starlarkdrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/thriftdrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/tsdrv"
	"github.com/synmerge/synmerge/merge/core/parser/drivers/yamldrv"
	"github.com/synmerge/synmerge/merge/core/pcs"
	"github.com/synmerge/synmerge/merge/core/render"
	"github.com/synmerge/synmerge/merge/core/tree"
	"github.com/synmerge/synmerge/merge/fallback"
)

// Engine bundles the driver registry and language profiles a merge
// needs; build one with NewEngine and reuse it across files.
type Engine struct {
	drivers  *parser.Registry
	profiles *langprofile.Registry
}

// NewEngine builds the engine with the builtin driver set, layering
// extra (TOML-declared) profiles on top of the builtin table if any
// are given.
func NewEngine(extra ...*langprofile.Profile) *Engine {
	drivers := map[string]parser.Driver{
		"bazel":    bazeldrv.Driver{},
		"cue":      cuedrv.Driver{},
		"gomod":    gomod.Driver{},
		"protobuf": protodrv.Driver{},
		"sql":      sqldrv.Driver{},
		"starlark": starlarkdrv.Driver{},
		"thrift":   thriftdrv.Driver{},
		"yaml":     yamldrv.Driver{},
	}
	for name, d := range tsdrv.New() {
		drivers[name] = d
	}

	profiles := langprofile.Builtin()
	if len(extra) > 0 {
		profiles = profiles.WithExtra(extra...)
	}

	return &Engine{drivers: parser.NewRegistry(drivers), profiles: profiles}
}

// Options controls one merge invocation.
type Options struct {
	Labels common.Labels
	Mode   render.Mode
	Fast   bool
}

// Result is a completed merge's output and exit status.
type Result struct {
	Text      []byte
	Conflicts bool
	// ExitCode follows spec section 6: 0 clean, 1 conflicts present.
	// Internal failures (parser crash, arena exhaustion) are not
	// represented here — they are the caller's panic to recover from
	// (see cmd/synmerge), never a Result.
	ExitCode int
	// BaseLeft, BaseRight and LeftRight are the three pairwise matchings
	// the structured path computed, for --debug-dump. They are nil
	// whenever the line-based fallback ran instead (parse error, unknown
	// language, or fast mode resolving without the structured path),
	// since no matching exists to dump in that case.
	BaseLeft, BaseRight, LeftRight *match.Matching
}

// Merge runs one three-way merge of fileName's base/left/right
// contents according to opts.
func (e *Engine) Merge(fileName string, base, left, right []byte, opts Options) (*Result, error) {
	if opts.Fast {
		outcome, err := fastmode.Coordinate(fileName, base, left, right, opts.Labels, e.drivers, e.profiles)
		if err != nil {
			return e.lineBasedResult(base, left, right, opts.Labels), nil
		}
		if outcome.Done {
			return &Result{Text: outcome.Text, Conflicts: outcome.Conflicts, ExitCode: exitCode(outcome.Conflicts)}, nil
		}
		return e.structured(fileName, outcome.SyntheticBase, outcome.SyntheticLeft, outcome.SyntheticRight,
			base, left, right, opts, outcome.SeedBaseLeft, outcome.SeedBaseRight, outcome.SeedLeftRight)
	}
	return e.structured(fileName, base, left, right, base, left, right, opts, nil, nil, nil)
}

// structured runs the structured path (spec 4.1-4.8) over
// parseBase/Left/Right (which, in fast mode's fallthrough case, are
// synthetic reconstructions rather than the true originals), restoring
// the original line ending and using origBase/Left/Right only for the
// parse-error fallback; everything else, line-based-merge subtrees
// included, is rendered from the parsed sources.
func (e *Engine) structured(fileName string, parseBase, parseLeft, parseRight, origBase, origLeft, origRight []byte, opts Options, seedBL, seedBR, seedLR *match.Matching) (*Result, error) {
	baseTree, profile, err := e.drivers.ParseFile(fileName, parseBase, common.Base, e.profiles)
	if err != nil {
		return e.lineBasedResult(origBase, origLeft, origRight, opts.Labels), nil
	}
	leftTree, _, err := e.drivers.ParseFile(fileName, parseLeft, common.Left, e.profiles)
	if err != nil {
		return e.lineBasedResult(origBase, origLeft, origRight, opts.Labels), nil
	}
	rightTree, _, err := e.drivers.ParseFile(fileName, parseRight, common.Right, e.profiles)
	if err != nil {
		return e.lineBasedResult(origBase, origLeft, origRight, opts.Labels), nil
	}

	baseLeft := match.Match(baseTree.Root, leftTree.Root, baseTree.Source, leftTree.Source, true, seedBL)
	baseRight := match.Match(baseTree.Root, rightTree.Root, baseTree.Source, rightTree.Source, true, seedBR)
	leftRight := match.Match(leftTree.Root, rightTree.Root, leftTree.Source, rightTree.Source, false, seedLR)

	classes := classmap.Build(baseTree, leftTree, rightTree, baseLeft, baseRight, leftRight)

	baseTriples := pcs.Encode(baseTree, classes, common.Base)
	leftTriples := pcs.Encode(leftTree, classes, common.Left)
	rightTriples := pcs.Encode(rightTree, classes, common.Right)
	set := pcs.Merge(baseTriples, leftTriples, rightTriples)

	built := mergetree.Build(profile, baseTree, leftTree, rightTree, classes, set)

	out := render.Render(built.Root, render.Sources{Base: baseTree.Source, Left: leftTree.Source, Right: rightTree.Source},
		profile, opts.Labels, opts.Mode, pickLineEnding(baseTree, leftTree, rightTree))

	return &Result{
		Text: out.Text, Conflicts: out.Conflicts, ExitCode: exitCode(out.Conflicts),
		BaseLeft: baseLeft, BaseRight: baseRight, LeftRight: leftRight,
	}, nil
}

// lineBasedResult implements spec 7's parse-error and unknown-language
// policy: abort the structured path and emit the line-based merge
// output, which may itself contain conflict markers.
func (e *Engine) lineBasedResult(base, left, right []byte, labels common.Labels) *Result {
	res := fallback.Merge(base, left, right, labels)
	return &Result{Text: res.Text, Conflicts: res.Conflicts, ExitCode: exitCode(res.Conflicts)}
}

func exitCode(conflicts bool) int {
	if conflicts {
		return common.ExitConflict
	}
	return common.ExitClean
}

func pickLineEnding(base, left, right *tree.Tree) string {
	votes := map[string]int{}
	for _, t := range []*tree.Tree{base, left, right} {
		if t.LineEnding != "" {
			votes[t.LineEnding]++
		}
	}
	best, bestN := "\n", 0
	for le, n := range votes {
		if n > bestN {
			best, bestN = le, n
		}
	}
	return best
}

