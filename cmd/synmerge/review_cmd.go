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

	"github.com/synmerge/synmerge/merge/cache"
	"github.com/synmerge/synmerge/merge/fallback"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Show a previously recorded conflicted merge",
		Long: `review looks up a merge id a prior "synmerge merge" invocation
printed to stderr and prints each revision's diff against the final
output, using the same line-diff primitive the line-based fallback
merges with (no separate diff library).`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}
	rootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	dir, err := cache.Dir()
	if err != nil {
		return err
	}
	store, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("review: no recorded merge %q", args[0])
	}

	printDiff("base", entry.Base, entry.Output)
	printDiff("left", entry.Left, entry.Output)
	printDiff("right", entry.Right, entry.Output)
	return nil
}

func printDiff(label string, old, output []byte) {
	hunks := fallback.Diff(old, output)
	if len(hunks) == 0 {
		fmt.Fprintf(os.Stdout, "--- %s: no differences from output\n", label)
		return
	}
	fmt.Fprintf(os.Stdout, "--- %s vs output\n", label)
	for _, h := range hunks {
		if len(h.Old) > 0 {
			fmt.Fprintf(os.Stdout, "@@ -%d +%d @@\n", h.OldLine+1, h.NewLine+1)
			writePrefixed(os.Stdout, "-", h.Old)
		}
		if len(h.New) > 0 {
			if len(h.Old) == 0 {
				fmt.Fprintf(os.Stdout, "@@ -%d +%d @@\n", h.OldLine+1, h.NewLine+1)
			}
			writePrefixed(os.Stdout, "+", h.New)
		}
	}
}

func writePrefixed(w *os.File, prefix string, text []byte) {
	start := 0
	for i, b := range text {
		if b == '\n' {
			fmt.Fprintf(w, "%s%s\n", prefix, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		fmt.Fprintf(w, "%s%s\n", prefix, text[start:])
	}
}
