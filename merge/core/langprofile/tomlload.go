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
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// tomlProfile is the on-disk shape of a profile override/extension
// file, kept deliberately flatter than Profile (no signature paths,
// which are rare enough to not warrant a TOML surface) so that a host
// can add atomic types, commutative parents and file associations for
// a new language without recompiling the engine.
type tomlProfile struct {
	Name       string   `toml:"name"`
	FileNames  []string `toml:"file_names"`
	Extensions []string `toml:"extensions"`
	Atomic     []string `toml:"atomic_types"`
	Flatten    []string `toml:"flatten_types"`
	Commutative map[string]struct {
		Delimiter string `toml:"delimiter"`
		Separator string `toml:"separator"`
	} `toml:"commutative_parents"`
}

// LoadProfilesTOML parses one or more TOML documents, each describing
// a single profile under a top-level [profile] table, and returns the
// resulting Profile values. A host passes the result to
// Registry.WithExtra to layer language support on top of the builtin
// registry.
func LoadProfilesTOML(docs ...[]byte) ([]*Profile, error) {
	var out []*Profile
	for i, doc := range docs {
		var wrapper struct {
			Profile tomlProfile `toml:"profile"`
		}
		if err := toml.Unmarshal(doc, &wrapper); err != nil {
			return nil, fmt.Errorf("profile document %d: %w", i, err)
		}
		if wrapper.Profile.Name == "" {
			return nil, fmt.Errorf("profile document %d: missing [profile].name", i)
		}
		out = append(out, fromTOML(wrapper.Profile))
	}
	return out, nil
}

func fromTOML(t tomlProfile) *Profile {
	p := &Profile{
		Name:              t.Name,
		FileNames:         t.FileNames,
		Extensions:        t.Extensions,
		AtomicTypes:       map[string]bool{},
		FlattenTypes:      map[string]bool{},
		CommutativeParents: map[string]CommutativeParent{},
	}
	for _, a := range t.Atomic {
		p.AtomicTypes[a] = true
	}
	for _, f := range t.Flatten {
		p.FlattenTypes[f] = true
	}
	for nodeType, cp := range t.Commutative {
		p.CommutativeParents[nodeType] = CommutativeParent{
			Delimiter: cp.Delimiter,
			Separator: cp.Separator,
		}
	}
	return p
}
