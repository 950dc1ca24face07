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

package fastmode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synmerge/synmerge/merge/fallback"
)

func TestParseMarkersNoMarkersIsOneCommonSegment(t *testing.T) {
	content := []byte("alpha\nbeta\n")
	segs := ParseMarkers(content)
	require.Len(t, segs, 1)
	require.Equal(t, fallback.SegCommon, segs[0].Kind)
	require.Equal(t, content, segs[0].Base)
}

func TestParseMarkersTwoWayFormHasEmptyBase(t *testing.T) {
	content := []byte("before\n<<<<<<< LEFT\nmine\n=======\ntheirs\n>>>>>>> RIGHT\nafter\n")
	segs := ParseMarkers(content)

	var conflict *fallback.Segment
	for i := range segs {
		if segs[i].Kind == fallback.SegConflict {
			conflict = &segs[i]
		}
	}
	require.NotNil(t, conflict)
	require.Empty(t, conflict.Base)
	require.Equal(t, []byte("mine\n"), conflict.Left)
	require.Equal(t, []byte("theirs\n"), conflict.Right)
}

func TestParseMarkersThreeWayFormCapturesBase(t *testing.T) {
	content := []byte("<<<<<<< LEFT\nmine\n||||||| BASE\noriginal\n=======\ntheirs\n>>>>>>> RIGHT\n")
	segs := ParseMarkers(content)
	require.Len(t, segs, 1)
	require.Equal(t, fallback.SegConflict, segs[0].Kind)
	require.Equal(t, []byte("original\n"), segs[0].Base)
	require.Equal(t, []byte("mine\n"), segs[0].Left)
	require.Equal(t, []byte("theirs\n"), segs[0].Right)
}

func TestCoordinateMarkedReturnsDoneWhenNoConflictMarkersRemain(t *testing.T) {
	content := []byte("already resolved\n")
	outcome, err := CoordinateMarked("file.txt", content, nil, nil)
	require.NoError(t, err)
	require.True(t, outcome.Done)
	require.Equal(t, content, outcome.Text)
	require.False(t, outcome.Conflicts)
}

func TestReconstructSyntheticAlignsUnconflictedRegions(t *testing.T) {
	segs := []fallback.Segment{
		{Kind: fallback.SegCommon, Base: []byte("shared\n")},
		{Kind: fallback.SegConflict, Base: []byte("o\n"), Left: []byte("l\n"), Right: []byte("r\n")},
		{Kind: fallback.SegRight, Right: []byte("tail\n")},
	}
	synth, ranges := reconstructSynthetic(segs)

	require.Equal(t, "shared\no\ntail\n", string(synth.Base))
	require.Equal(t, "shared\nl\ntail\n", string(synth.Left))
	require.Equal(t, "shared\nr\ntail\n", string(synth.Right))
	require.Len(t, ranges, 2)
	require.Equal(t, segRange{0, len("shared\n")}, ranges[0][0])
	require.Equal(t, segRange{len("shared\no\n"), len("shared\no\n") + len("tail\n")}, ranges[1][0])
}

func TestResolvedTextPrefersLeftOnAgreement(t *testing.T) {
	seg := fallback.Segment{Kind: fallback.SegAgreed, Left: []byte("same\n"), Right: []byte("same\n")}
	require.Equal(t, []byte("same\n"), resolvedText(seg))
}
