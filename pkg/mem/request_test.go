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

package mem

import (
	"testing"
)

func TestBlockAddr(t *testing.T) {
	tcases := []struct {
		name      string
		addr      uint64
		blockSize uint64
		expected  uint64
	}{
		{
			name:      "already aligned",
			addr:      0x1000,
			blockSize: 64,
			expected:  0x1000,
		},
		{
			name:      "middle of block",
			addr:      0x103f,
			blockSize: 64,
			expected:  0x1000,
		},
		{
			name:      "first byte of next block",
			addr:      0x1040,
			blockSize: 64,
			expected:  0x1040,
		},
		{
			name:      "non-power-of-two block",
			addr:      250,
			blockSize: 100,
			expected:  200,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BlockAddr(tc.addr, tc.blockSize); got != tc.expected {
				t.Errorf("BlockAddr(%#x, %d): expected %#x, got %#x",
					tc.addr, tc.blockSize, tc.expected, got)
			}
		})
	}
}

func TestParseRequestType(t *testing.T) {
	for _, rt := range []RequestType{
		ReadRequest, ReadForWriteRequest, WriteRequest, WritebackRequest, PrefetchRequest,
	} {
		parsed, err := ParseRequestType(rt.String())
		if err != nil {
			t.Errorf("failed to parse %q: %v", rt.String(), err)
		}
		if parsed != rt {
			t.Errorf("expected %v, got %v", rt, parsed)
		}
	}
	if _, err := ParseRequestType("bogus"); err == nil {
		t.Errorf("expected an error for an unknown request type")
	}
}
