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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synmerge/synmerge/merge"
	"github.com/synmerge/synmerge/merge/core/fastmode"
	"github.com/synmerge/synmerge/merge/core/langprofile"
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
	"github.com/synmerge/synmerge/merge/core/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Re-coordinate a file that already contains conflict markers",
		Long: `solve reads a file that already carries Git-style conflict markers
(no original base/left/right revisions available) and, where any
marker remains genuinely conflicting, reparses the resolvable regions
and reruns the structured pipeline over synthetic sources
reconstructed from the markers (spec 4.10's interactive solve mode).`,
		Args: cobra.ExactArgs(1),
		RunE: runSolve,
	}
	rootCmd.AddCommand(cmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := logger()
	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	drivers := solveRegistry()
	profiles := langprofile.Builtin()

	outcome, err := fastmode.CoordinateMarked(args[0], content, drivers, profiles)
	if err != nil {
		return err
	}
	if !outcome.Done {
		mode := render.LineAligned
		if *rootFlags.compact {
			mode = render.Compact
		}
		res, err := merge.NewEngine().Merge(args[0], outcome.SyntheticBase, outcome.SyntheticLeft, outcome.SyntheticRight,
			merge.Options{Labels: labels(), Mode: mode})
		if err != nil {
			return err
		}
		outcome.Text, outcome.Conflicts = res.Text, res.Conflicts
	}

	log.Info("solved", zap.Bool("conflicts", outcome.Conflicts))
	fmt.Fprint(os.Stdout, string(outcome.Text))
	if outcome.Conflicts {
		exitCode = 1
	}
	return nil
}

func solveRegistry() *parser.Registry {
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
	return parser.NewRegistry(drivers)
}
