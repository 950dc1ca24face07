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

// Package parser implements the driver described in spec section 4.1:
// it detects a revision's language, normalizes its line endings,
// invokes the language's concrete parser through the uniform Driver
// interface, and post-processes the resulting tree. The concrete
// per-language parsers live in parser/drivers and are plugged in by
// the caller (see merge.NewEngine) — this package never imports them,
// so it stays agnostic of which third-party parsing libraries are
// actually linked in.
package parser

import (
	"errors"
	"fmt"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/langprofile"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// ErrUnknownLanguage is returned when no profile/driver matches a file
// name, instructing the caller to fall back to line-based merge (spec
// section 7).
var ErrUnknownLanguage = errors.New("parser: no language profile matches this file")

// ParseError wraps a concrete driver's failure to parse, e.g. because
// the grammar reported an error span. Callers fall back to line-based
// merge whenever they see one (spec section 7).
type ParseError struct {
	FileName string
	Cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %s: %v", e.FileName, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Driver is the uniform interface every concrete per-language parser
// implements. Parse receives source already normalized to LF line
// endings and returns a raw (pre-post-processing) node tree, or an
// error if the grammar could not parse it cleanly.
type Driver interface {
	Parse(src []byte) (*tree.Node, error)
}

// Registry maps a language profile name to the Driver that parses it.
type Registry struct {
	drivers map[string]Driver
}

// NewRegistry builds a driver registry from a name-to-driver map.
func NewRegistry(drivers map[string]Driver) *Registry {
	cp := make(map[string]Driver, len(drivers))
	for k, v := range drivers {
		cp[k] = v
	}
	return &Registry{drivers: cp}
}

// ParseFile detects fileName's language via profiles, normalizes raw's
// line endings, and drives the matching Driver, post-processing its
// output per spec section 3. The returned Tree's Source is already
// normalized; LineEnding records the original predominant terminator.
func (r *Registry) ParseFile(fileName string, raw []byte, revision common.Revision, profiles *langprofile.Registry) (*tree.Tree, *langprofile.Profile, error) {
	profile, ok := profiles.Detect(fileName)
	if !ok {
		return nil, nil, ErrUnknownLanguage
	}
	driver, ok := r.drivers[profile.Name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: profile %q has no registered driver", ErrUnknownLanguage, profile.Name)
	}

	normalized, lineEnding := tree.NormalizeLineEndings(raw)
	root, err := driver.Parse(normalized)
	if err != nil {
		return nil, nil, &ParseError{FileName: fileName, Cause: err}
	}
	root = tree.PostProcess(root, normalized, profile)

	t := &tree.Tree{
		Revision:   revision,
		Source:     normalized,
		Root:       root,
		LineEnding: lineEnding,
	}
	return t, profile, nil
}
