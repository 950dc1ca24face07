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

	"github.com/synmerge/synmerge/merge/common"
)

var rootCmd = &cobra.Command{
	Use:   "synmerge",
	Short: "Structure-aware three-way merge",
	Long: `synmerge merges three revisions of a file using the file's own
grammar rather than diffing lines: matching nodes are merged in place,
commutative siblings (declarations, struct fields, imports) are
reordered instead of conflicting, and only genuine edit collisions fall
back to a line-based merge.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootFlags = struct {
	compact    *bool
	verbose    *bool
	debugDump  *string
	labelBase  *string
	labelLeft  *string
	labelRight *string
}{}

func init() {
	rootFlags.compact = rootCmd.PersistentFlags().Bool("compact", false, "render conflicts at their exact granularity instead of expanding to whole lines")
	rootFlags.verbose = rootCmd.PersistentFlags().Bool("verbose", false, "log each pipeline stage to stderr")
	rootFlags.debugDump = rootCmd.PersistentFlags().String("debug-dump", "", "write the pairwise matchings as DOT graphs into this directory")
	rootFlags.labelBase = rootCmd.PersistentFlags().String("label-base", "", "conflict marker label for the base revision (default BASE)")
	rootFlags.labelLeft = rootCmd.PersistentFlags().String("label-left", "", "conflict marker label for the left revision (default LEFT)")
	rootFlags.labelRight = rootCmd.PersistentFlags().String("label-right", "", "conflict marker label for the right revision (default RIGHT)")
}

// logger is shared by every subcommand; in --verbose mode it logs at
// InfoLevel to stderr (zap's development config with the level
// raised), otherwise it is silent.
func logger() *zap.Logger {
	if !*rootFlags.verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func labels() common.Labels {
	return common.Labels{Base: *rootFlags.labelBase, Left: *rootFlags.labelLeft, Right: *rootFlags.labelRight}
}

// Execute runs the root command, printing any returned error to
// stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
