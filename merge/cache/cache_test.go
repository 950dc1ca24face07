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

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	id, err := store.Put([]byte("base"), []byte("left"), []byte("right"), []byte("output"), 1000)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entry, err := store.Get(id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, id, entry.ID)
	require.Equal(t, []byte("base"), entry.Base)
	require.Equal(t, []byte("left"), entry.Left)
	require.Equal(t, []byte("right"), entry.Right)
	require.Equal(t, []byte("output"), entry.Output)
	require.Equal(t, int64(1000), entry.CreatedAt)
}

func TestGetUnknownIDReturnsNilNoError(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	entry, err := store.Get("does-not-exist")
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestPutGeneratesDistinctIDs(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	id1, err := store.Put([]byte("a"), []byte("b"), []byte("c"), []byte("d"), 1)
	require.NoError(t, err)
	id2, err := store.Put([]byte("a"), []byte("b"), []byte("c"), []byte("d"), 2)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
}
