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

// fifo evicts slots in insertion order; uses do not reorder.
type fifo struct {
	order []Slot
}

func init() {
	RegisterPolicy("fifo", func(capacity int) Policy {
		return &fifo{order: make([]Slot, 0, capacity)}
	})
}

func (f *fifo) Inserted(s Slot) {
	f.order = append(f.order, s)
}

func (f *fifo) Touched(s Slot) {
}

func (f *fifo) Invalidated(s Slot) {
	for i, o := range f.order {
		if o == s {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return
		}
	}
}

func (f *fifo) Victim() Slot {
	victim := f.order[0]
	f.order = f.order[1:]
	return victim
}
