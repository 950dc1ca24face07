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

// goProfile declares the tree-sitter Go grammar's node-type metadata.
// Import declarations are commutative (the spec's S1 scenario merges
// an unordered union of "using" entries; in Go the analogous construct
// is an import_spec_list), keyed by the imported path so two revisions
// adding the same import do not duplicate it.
func goProfile() *Profile {
	return &Profile{
		Name:       "go",
		Extensions: []string{".go"},
		AtomicTypes: map[string]bool{
			"interpreted_string_literal": true,
			"raw_string_literal":         true,
			"int_literal":                true,
			"float_literal":              true,
			"identifier":                 true,
			"comment":                    true,
		},
		CommutativeParents: map[string]CommutativeParent{
			"import_spec_list": {
				Delimiter: "(",
				Separator: "\n",
			},
		},
		Signatures: map[string]SignatureDef{
			"import_spec": {
				Paths: []SignaturePath{
					{{Kind: StepField, Name: "path"}},
				},
			},
		},
		FlattenTypes: map[string]bool{
			"binary_expression": true,
		},
	}
}

// csharpProfile covers the C#-like construct exercised by the spec's
// S1 scenario: a block of "using" directives with no inherent order.
func csharpProfile() *Profile {
	return &Profile{
		Name:       "csharp",
		Extensions: []string{".cs"},
		AtomicTypes: map[string]bool{
			"identifier":  true,
			"string_literal": true,
			"comment":     true,
		},
		CommutativeParents: map[string]CommutativeParent{
			"compilation_unit": {
				Separator: "\n",
				Groups: map[string][]string{
					"usings": {"using_directive"},
				},
			},
		},
		Signatures: map[string]SignatureDef{
			"using_directive": {
				Paths: []SignaturePath{
					{{Kind: StepField, Name: "name"}},
				},
			},
		},
	}
}

// jsonProfile makes object members commutative and keys each by its
// key text, which is exactly the spec's S2 scenario (duplicate-key
// conflict when both sides add an entry under the same key).
func jsonProfile() *Profile {
	return &Profile{
		Name:       "json",
		Extensions: []string{".json"},
		AtomicTypes: map[string]bool{
			"string": true,
			"number": true,
			"true":   true,
			"false":  true,
			"null":   true,
		},
		CommutativeParents: map[string]CommutativeParent{
			"object": {
				Delimiter: "{",
				Separator: ",",
			},
		},
		Signatures: map[string]SignatureDef{
			"pair": {
				Paths: []SignaturePath{
					{{Kind: StepField, Name: "key"}},
				},
			},
		},
	}
}

// goModProfile treats each of the require/exclude/replace/retract
// blocks as commutative at the line level, mirroring the teacher's own
// gomod.astEq block-wise comparison.
func goModProfile() *Profile {
	return &Profile{
		Name:      "gomod",
		FileNames: []string{"go.mod"},
		CommutativeParents: map[string]CommutativeParent{
			"require_block": {Separator: "\n"},
			"exclude_block": {Separator: "\n"},
			"replace_block": {Separator: "\n"},
			"retract_block": {Separator: "\n"},
		},
		Signatures: map[string]SignatureDef{
			"require_line": {Paths: []SignaturePath{{{Kind: StepField, Name: "path"}}}},
			"exclude_line": {Paths: []SignaturePath{{{Kind: StepField, Name: "path"}}}},
			"replace_line": {Paths: []SignaturePath{{{Kind: StepField, Name: "old_path"}}}},
		},
	}
}

// yamlProfile marks mapping nodes commutative, keyed by their scalar
// key, and sequence items as ordered (no commutative declaration).
func yamlProfile() *Profile {
	return &Profile{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		CommutativeParents: map[string]CommutativeParent{
			"mapping": {Separator: "\n"},
		},
		Signatures: map[string]SignatureDef{
			"mapping_pair": {Paths: []SignaturePath{{{Kind: StepField, Name: "key"}}}},
		},
	}
}

// bazelProfile covers BUILD/BUILD.bazel/WORKSPACE/.bzl files, parsed by
// bazeldrv via buildtools/build: top-level rule calls and load() symbol
// lists are commutative.
func bazelProfile() *Profile {
	return &Profile{
		Name:       "bazel",
		FileNames:  []string{"BUILD", "BUILD.bazel", "WORKSPACE"},
		Extensions: []string{".bzl"},
		CommutativeParents: map[string]CommutativeParent{
			"file":      {Separator: "\n\n"},
			"load_stmt": {Separator: ", "},
		},
		Signatures: map[string]SignatureDef{
			"rule_call": {Paths: []SignaturePath{{{Kind: StepField, Name: "name"}}}},
		},
	}
}

// starlarkProfile covers plain .star scripts, parsed by starlarkdrv via
// go.starlark.net/syntax: top-level statements and load() symbol lists
// are commutative, mirroring bazelProfile's treatment of the same
// constructs in the buildtools grammar.
func starlarkProfile() *Profile {
	return &Profile{
		Name:       "starlark",
		Extensions: []string{".star"},
		CommutativeParents: map[string]CommutativeParent{
			"module":    {Separator: "\n\n"},
			"load_stmt": {Separator: ", "},
		},
		Signatures: map[string]SignatureDef{
			"rule_call": {Paths: []SignaturePath{{{Kind: StepField, Name: "name"}}}},
		},
	}
}

// cueProfile marks struct fields commutative and keyed by their label
// text, the CUE analogue of jsonProfile's object-member handling.
func cueProfile() *Profile {
	return &Profile{
		Name:       "cue",
		Extensions: []string{".cue"},
		CommutativeParents: map[string]CommutativeParent{
			"struct":   {Separator: "\n"},
			"cue_file": {Separator: "\n"},
		},
		Signatures: map[string]SignatureDef{
			"field": {Paths: []SignaturePath{{{Kind: StepField, Name: "key"}}}},
		},
	}
}

// protoProfile marks a message's body commutative, keyed by field name,
// matching the teacher's protobuf package's unordered-field comparison.
func protoProfile() *Profile {
	return &Profile{
		Name:       "protobuf",
		Extensions: []string{".proto"},
		CommutativeParents: map[string]CommutativeParent{
			"proto_file": {Separator: "\n"},
			"message":    {Separator: "\n"},
		},
		Signatures: map[string]SignatureDef{
			"field": {Paths: []SignaturePath{{{Kind: StepField, Name: "name"}}}},
		},
	}
}

// thriftProfile marks a struct's field list commutative, keyed by field
// name, matching the teacher's thrift package's unordered-field
// comparison.
func thriftProfile() *Profile {
	return &Profile{
		Name:       "thrift",
		Extensions: []string{".thrift"},
		CommutativeParents: map[string]CommutativeParent{
			"thrift_file": {Separator: "\n"},
			"struct":      {Separator: "\n"},
		},
		Signatures: map[string]SignatureDef{
			"field": {Paths: []SignaturePath{{{Kind: StepField, Name: "name"}}}},
		},
	}
}

// sqlProfile treats a file of semicolon-separated statements as an
// ordered sequence; sqldrv tracks no finer structure than whole
// statements plus an optional table_list, so there is nothing further
// to mark commutative.
func sqlProfile() *Profile {
	return &Profile{
		Name:       "sql",
		Extensions: []string{".sql"},
	}
}
