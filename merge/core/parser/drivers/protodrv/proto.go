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

// Package protodrv drives github.com/yoheimuta/go-protoparser/v4 to
// turn a .proto schema into a merge-engine tree.Node forest, grounded
// on the teacher's analyzer/protobuf package (same library, used
// there to compare proto schema ASTs for equivalence).
package protodrv

import (
	"bytes"
	"fmt"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	"github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/synmerge/synmerge/merge/common"
	"github.com/synmerge/synmerge/merge/core/tree"
)

// Driver parses .proto files via go-protoparser. The library only
// tracks each element's starting offset, not its length, so sibling
// spans are closed off against the next sibling's start (or the
// source's end for the last one) — coarser than a dedicated grammar,
// but sufficient for whole-declaration matching and merging.
type Driver struct{}

// Parse implements parser.Driver.
func (Driver) Parse(src []byte) (*tree.Node, error) {
	got, err := protoparser.Parse(bytes.NewReader(src), protoparser.WithDebug(false), protoparser.WithPermissive(true))
	if err != nil {
		return nil, fmt.Errorf("proto: %w", err)
	}

	var starts []int
	var nodes []*tree.Node
	for _, v := range got.ProtoBody {
		n, start := buildVisitee(v)
		if n == nil {
			continue
		}
		starts = append(starts, start)
		nodes = append(nodes, n)
	}
	closeSpans(nodes, starts, len(src))

	return &tree.Node{Type: "proto_file", Span: common.Span{Start: 0, End: len(src)}, Children: nodes}, nil
}

// closeSpans assigns each node's End to the next node's Start (or to
// end for the last node), since go-protoparser positions only record
// offsets, not lengths.
func closeSpans(nodes []*tree.Node, starts []int, end int) {
	for i, n := range nodes {
		n.Span.Start = starts[i]
		if i+1 < len(starts) {
			n.Span.End = starts[i+1]
		} else {
			n.Span.End = end
		}
	}
}

func buildVisitee(v parser.Visitee) (*tree.Node, int) {
	switch x := v.(type) {
	case *parser.Package:
		return &tree.Node{Type: "package"}, int(x.Meta.Pos.Offset)
	case *parser.Import:
		return &tree.Node{Type: "import"}, int(x.Meta.Pos.Offset)
	case *parser.Option:
		n := &tree.Node{Type: "option"}
		return n, int(x.Meta.Pos.Offset)
	case *parser.Message:
		n := &tree.Node{Type: "message"}
		n.Children = append(n.Children, &tree.Node{Type: "identifier", Field: "name", Span: common.Span{}})
		var starts []int
		var children []*tree.Node
		for _, inner := range x.MessageBody {
			c, start := buildVisitee(inner)
			if c == nil {
				continue
			}
			starts = append(starts, start)
			children = append(children, c)
		}
		closeSpans(children, starts, int(x.Meta.Pos.Offset))
		n.Children = append(n.Children, children...)
		return n, int(x.Meta.Pos.Offset)
	case *parser.Field:
		n := &tree.Node{Type: "field"}
		n.Children = append(n.Children, &tree.Node{Type: "identifier", Field: "name"})
		return n, int(x.Meta.Pos.Offset)
	case *parser.Enum:
		return &tree.Node{Type: "enum"}, int(x.Meta.Pos.Offset)
	case *parser.Service:
		return &tree.Node{Type: "service"}, int(x.Meta.Pos.Offset)
	case *parser.RPC:
		return &tree.Node{Type: "rpc"}, int(x.Meta.Pos.Offset)
	default:
		return nil, 0
	}
}
