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

// Package table implements a bounded, keyed associative table with
// pluggable eviction policies.
package table

import (
	"fmt"
)

// Table is a fixed-capacity keyed store. When full, inserting a new key
// silently evicts a victim picked by the configured eviction policy.
// Slot positions are stable for the lifetime of an entry, so slot-order
// iteration with EntryAt is deterministic.
type Table[K comparable, V any] struct {
	slots  []slot[K, V]
	index  map[K]Slot
	policy Policy
}

type slot[K comparable, V any] struct {
	key   K
	valid bool
	value V
}

// New creates a table with the given capacity and eviction policy.
func New[K comparable, V any](capacity int, policy string) (*Table[K, V], error) {
	if capacity < 1 {
		return nil, tableError("invalid capacity %d", capacity)
	}
	p, err := NewPolicy(policy, capacity)
	if err != nil {
		return nil, err
	}
	return &Table[K, V]{
		slots:  make([]slot[K, V], capacity),
		index:  make(map[K]Slot, capacity),
		policy: p,
	}, nil
}

// Cap returns the number of slots in the table.
func (t *Table[K, V]) Cap() int {
	return len(t.slots)
}

// Len returns the number of valid entries in the table.
func (t *Table[K, V]) Len() int {
	return len(t.index)
}

// Insert stores a new entry, evicting a victim if the table is full.
// Inserting an already present key is an error.
func (t *Table[K, V]) Insert(key K, value V) error {
	if _, ok := t.index[key]; ok {
		return tableError("key %v already present", key)
	}

	s := t.freeSlot()
	if s < 0 {
		s = t.policy.Victim()
		delete(t.index, t.slots[s].key)
	}

	t.slots[s] = slot[K, V]{key: key, valid: true, value: value}
	t.index[key] = s
	t.policy.Inserted(s)

	return nil
}

// Read returns a mutable reference to the value stored for key and
// refreshes the entry's usage state in the eviction policy.
func (t *Table[K, V]) Read(key K) (*V, bool) {
	s, ok := t.index[key]
	if !ok {
		return nil, false
	}
	t.policy.Touched(s)
	return &t.slots[s].value, true
}

// Lookup returns a mutable reference to the value stored for key without
// touching the eviction policy state.
func (t *Table[K, V]) Lookup(key K) (*V, bool) {
	s, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return &t.slots[s].value, true
}

// EntryAt returns the contents of the i'th slot. The value reference is
// only meaningful when valid is true.
func (t *Table[K, V]) EntryAt(i int) (key K, valid bool, value *V) {
	s := &t.slots[i]
	return s.key, s.valid, &s.value
}

// Invalidate removes the entry stored for key, if any.
func (t *Table[K, V]) Invalidate(key K) {
	s, ok := t.index[key]
	if !ok {
		return
	}
	delete(t.index, key)
	t.slots[s].valid = false
	t.policy.Invalidated(s)
}

func (t *Table[K, V]) freeSlot() Slot {
	for i := range t.slots {
		if !t.slots[i].valid {
			return Slot(i)
		}
	}
	return -1
}

func tableError(format string, args ...interface{}) error {
	return fmt.Errorf("table: "+format, args...)
}
