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

	"github.com/synmerge/synmerge/merge/common"
)

// exitCode is set by whichever subcommand ran (0 clean, 1 conflicts);
// main reads it only when Execute itself returned no error, since an
// error already exits non-zero on its own path.
var exitCode int

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "synmerge: internal error: %v\n", r)
			os.Exit(common.ExitInternal)
		}
	}()

	if err := Execute(); err != nil {
		os.Exit(common.ExitInternal)
	}
	os.Exit(exitCode)
}
