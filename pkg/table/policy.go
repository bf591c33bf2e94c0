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
	"sort"
)

// Slot identifies a slot of a Table.
type Slot int

// Policy tracks slot usage and picks eviction victims for a Table.
type Policy interface {
	// Inserted records that a new entry was placed in the slot.
	Inserted(s Slot)
	// Touched records a use of the entry in the slot.
	Touched(s Slot)
	// Invalidated records that the entry in the slot was removed.
	Invalidated(s Slot)
	// Victim picks the slot to evict and forgets it. It is only called
	// when every slot is occupied.
	Victim() Slot
}

// CreatePolicyFn is the type for functions that create eviction policies.
type CreatePolicyFn func(capacity int) Policy

// policies is a map of policy name -> policy creator.
var policies = make(map[string]CreatePolicyFn)

// RegisterPolicy registers a named eviction policy.
func RegisterPolicy(name string, create CreatePolicyFn) {
	policies[name] = create
}

// PolicyNames returns the names of all registered policies, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy creates an instance of the named eviction policy.
func NewPolicy(name string, capacity int) (Policy, error) {
	create, ok := policies[name]
	if !ok {
		return nil, tableError("unknown eviction policy %q", name)
	}
	return create(capacity), nil
}
