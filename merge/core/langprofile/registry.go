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

package langprofile

import (
	"path/filepath"
	"strings"
)

// Registry is an immutable, lookup-only table of profiles. The zero
// value is an empty registry; use NewRegistry or Builtin to obtain a
// populated one.
type Registry struct {
	byName profileMap
}

type profileMap map[string]*Profile

// NewRegistry builds a registry from an explicit list of profiles.
func NewRegistry(profiles ...*Profile) *Registry {
	r := &Registry{byName: profileMap{}}
	for _, p := range profiles {
		r.byName[p.Name] = p
	}
	return r
}

// Builtin returns the registry of profiles shipped with the engine.
func Builtin() *Registry {
	return NewRegistry(
		goProfile(),
		csharpProfile(),
		jsonProfile(),
		goModProfile(),
		yamlProfile(),
		bazelProfile(),
		starlarkProfile(),
		cueProfile(),
		protoProfile(),
		thriftProfile(),
		sqlProfile(),
	)
}

// WithExtra returns a new registry containing every profile of r plus
// extra, with extra's entries taking precedence on name collision.
// Used to layer TOML-declared override profiles (see tomlload.go) on
// top of the builtin set without mutating either.
func (r *Registry) WithExtra(extra ...*Profile) *Registry {
	merged := NewRegistry()
	for name, p := range r.byName {
		merged.byName[name] = p
	}
	for _, p := range extra {
		merged.byName[p.Name] = p
	}
	return merged
}

// ByName looks up a profile by its canonical name.
func (r *Registry) ByName(name string) (*Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Detect finds the profile for a file name, checking exact file names
// before extensions, per spec section 4.1.
func (r *Registry) Detect(fileName string) (*Profile, bool) {
	base := filepath.Base(fileName)
	for _, p := range r.byName {
		for _, exact := range p.FileNames {
			if base == exact {
				return p, true
			}
		}
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, p := range r.byName {
		for _, e := range p.Extensions {
			if strings.ToLower(e) == ext {
				return p, true
			}
		}
	}
	return nil, false
}
