// Copyright 2022 The cmpsim Authors. All Rights Reserved.
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

package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAndLookup(t *testing.T) {
	tbl, err := New[uint32, string](4, "lru")
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Cap())

	require.NoError(t, tbl.Insert(1, "one"))
	require.NoError(t, tbl.Insert(2, "two"))
	require.Error(t, tbl.Insert(1, "duplicate"))
	require.Equal(t, 2, tbl.Len())

	v, ok := tbl.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "one", *v)

	_, ok = tbl.Lookup(3)
	require.False(t, ok)
}

func TestMutableRead(t *testing.T) {
	tbl, err := New[uint32, string](2, "lru")
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(1, "before"))
	v, ok := tbl.Read(1)
	require.True(t, ok)
	*v = "after"

	v, ok = tbl.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "after", *v)
}

func TestSlotOrderIteration(t *testing.T) {
	tbl, err := New[uint32, int](4, "lru")
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(10, 100))
	require.NoError(t, tbl.Insert(11, 101))
	require.NoError(t, tbl.Insert(12, 102))

	keys := []uint32{}
	for i := 0; i < tbl.Cap(); i++ {
		key, valid, _ := tbl.EntryAt(i)
		if valid {
			keys = append(keys, key)
		}
	}
	require.Equal(t, []uint32{10, 11, 12}, keys)

	// Invalidation leaves other slots in place.
	tbl.Invalidate(11)
	key, valid, _ := tbl.EntryAt(1)
	require.False(t, valid)
	key, valid, value := tbl.EntryAt(2)
	require.True(t, valid)
	require.Equal(t, uint32(12), key)
	require.Equal(t, 102, *value)

	// The freed slot is reused before anything is evicted.
	require.NoError(t, tbl.Insert(13, 103))
	key, valid, _ = tbl.EntryAt(1)
	require.True(t, valid)
	require.Equal(t, uint32(13), key)
}

func TestLRUEviction(t *testing.T) {
	tbl, err := New[uint32, int](2, "lru")
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(1, 1))
	require.NoError(t, tbl.Insert(2, 2))

	// Touch key 1 so key 2 becomes the LRU victim.
	_, ok := tbl.Read(1)
	require.True(t, ok)

	require.NoError(t, tbl.Insert(3, 3))
	_, ok = tbl.Lookup(2)
	require.False(t, ok)
	_, ok = tbl.Lookup(1)
	require.True(t, ok)
	_, ok = tbl.Lookup(3)
	require.True(t, ok)
}

func TestFIFOEviction(t *testing.T) {
	tbl, err := New[uint32, int](2, "fifo")
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(1, 1))
	require.NoError(t, tbl.Insert(2, 2))

	// Touching does not reorder a FIFO.
	_, ok := tbl.Read(1)
	require.True(t, ok)

	require.NoError(t, tbl.Insert(3, 3))
	_, ok = tbl.Lookup(1)
	require.False(t, ok)
	_, ok = tbl.Lookup(2)
	require.True(t, ok)
}

func TestUnknownPolicy(t *testing.T) {
	_, err := New[uint32, int](2, "no-such-policy")
	require.Error(t, err)
	_, err = New[uint32, int](0, "lru")
	require.Error(t, err)
}

func TestPolicyNames(t *testing.T) {
	names := PolicyNames()
	require.Contains(t, names, "lru")
	require.Contains(t, names, "fifo")
}
