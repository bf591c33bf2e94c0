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

// lru evicts the least recently used slot. Slots are kept in use order,
// least recent first.
type lru struct {
	order []Slot
}

func init() {
	RegisterPolicy("lru", func(capacity int) Policy {
		return &lru{order: make([]Slot, 0, capacity)}
	})
}

func (l *lru) Inserted(s Slot) {
	l.order = append(l.order, s)
}

func (l *lru) Touched(s Slot) {
	l.remove(s)
	l.order = append(l.order, s)
}

func (l *lru) Invalidated(s Slot) {
	l.remove(s)
}

func (l *lru) Victim() Slot {
	victim := l.order[0]
	l.order = l.order[1:]
	return victim
}

func (l *lru) remove(s Slot) {
	for i, o := range l.order {
		if o == s {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
