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
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synmerge/synmerge/merge"
	"github.com/synmerge/synmerge/merge/cache"
	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/render"
	"github.com/synmerge/synmerge/merge/debugdump"
	"github.com/synmerge/synmerge/merge/fallback"
)

var mergeFlags = struct {
	fast *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "merge <base> <left> <right>",
		Short: "Merge three revisions of a file",
		Args:  cobra.ExactArgs(3),
		RunE:  runMerge,
	}
	mergeFlags.fast = cmd.Flags().Bool("fast", false, "try the line-based coordinator before the structured path (spec 4.10)")
	rootCmd.AddCommand(cmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := logger()
	base, left, right := args[0], args[1], args[2]

	baseText, err := os.ReadFile(base)
	if err != nil {
		return err
	}
	leftText, err := os.ReadFile(left)
	if err != nil {
		return err
	}
	rightText, err := os.ReadFile(right)
	if err != nil {
		return err
	}

	// ENGINE_DISABLE bypasses the structured engine entirely, per the
	// fallback-only escape hatch: the line-based merge runs on its own,
	// with no parsing, matching or tree building at all.
	if os.Getenv("ENGINE_DISABLE") != "" {
		log.Info("ENGINE_DISABLE set, running line-based merge only")
		res := fallback.Merge(baseText, leftText, rightText, labels())
		fmt.Fprint(os.Stdout, string(res.Text))
		exitCode = exitStatus(res.Conflicts)
		return persistIfConflict(log, baseText, leftText, rightText, res.Text, res.Conflicts)
	}

	mode := render.LineAligned
	if *rootFlags.compact {
		mode = render.Compact
	}

	log.Info("merging", zap.String("base", base), zap.String("left", left), zap.String("right", right))
	eng := merge.NewEngine()
	result, err := eng.Merge(left, baseText, leftText, rightText, merge.Options{
		Labels: labels(),
		Mode:   mode,
		Fast:   *mergeFlags.fast,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, string(result.Text))
	exitCode = result.ExitCode

	if *rootFlags.debugDump != "" {
		if result.BaseLeft == nil {
			log.Info("skipping --debug-dump: line-based fallback ran, no matchings to dump")
		} else if err := debugdump.WriteAll(*rootFlags.debugDump, result.BaseLeft, result.BaseRight, result.LeftRight); err != nil {
			return err
		}
	}

	return persistIfConflict(log, baseText, leftText, rightText, result.Text, result.Conflicts)
}

func persistIfConflict(log *zap.Logger, base, left, right, output []byte, conflicts bool) error {
	if !conflicts {
		return nil
	}
	dir, err := cache.Dir()
	if err != nil {
		return nil
	}
	store, err := cache.Open(dir)
	if err != nil {
		return nil
	}
	defer store.Close()
	id, err := store.Put(base, left, right, output, time.Now().Unix())
	if err != nil {
		return nil
	}
	log.Info("persisted conflicted merge", zap.String("id", id))
	fmt.Fprintf(os.Stderr, "conflicts recorded as %s (run \"synmerge review %s\" to inspect)\n", id, id)
	return nil
}

func exitStatus(conflicts bool) int {
	if conflicts {
		return common.ExitConflict
	}
	return common.ExitClean
}
