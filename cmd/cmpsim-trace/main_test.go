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

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cmplab/cmpsim/pkg/mem"
)

func TestParseAccess(t *testing.T) {
	tcases := []struct {
		name     string
		line     string
		expected *mem.Request
		fails    bool
	}{
		{
			name: "decimal fields",
			line: "100 READ 4096 8192 1234 42",
			expected: &mem.Request{
				Type:     mem.ReadRequest,
				Cycle:    100,
				VirtAddr: 4096,
				PhysAddr: 8192,
				IP:       1234,
				ICount:   42,
			},
		},
		{
			name: "hex addresses",
			line: "1 WRITE 0x1000 0x40001000 0xdead 7",
			expected: &mem.Request{
				Type:     mem.WriteRequest,
				Cycle:    1,
				VirtAddr: 0x1000,
				PhysAddr: 0x40001000,
				IP:       0xdead,
				ICount:   7,
			},
		},
		{
			name:  "missing fields",
			line:  "1 READ 0x1000",
			fails: true,
		},
		{
			name:  "bad request type",
			line:  "1 BOGUS 0x1000 0x2000 0x3000 1",
			fails: true,
		},
		{
			name:  "bad address",
			line:  "1 READ banana 0x2000 0x3000 1",
			fails: true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := parseAccess(tc.line)
			if tc.fails {
				if err == nil {
					t.Errorf("expected parsing %q to fail", tc.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to parse %q: %v", tc.line, err)
			}
			if diff := cmp.Diff(tc.expected, req); diff != "" {
				t.Errorf("unexpected request (-want +got):\n%s", diff)
			}
		})
	}
}
