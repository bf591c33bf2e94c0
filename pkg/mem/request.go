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

// Package mem defines the request and component model of the simulated
// memory hierarchy.
package mem

import (
	"fmt"
	"strings"
)

// Cycles counts simulated clock cycles.
type Cycles uint64

// RequestType classifies memory requests.
type RequestType int

const (
	// ReadRequest is a demand read access.
	ReadRequest RequestType = iota
	// ReadForWriteRequest is a read with write intent (read-for-ownership).
	ReadForWriteRequest
	// WriteRequest is a demand write access.
	WriteRequest
	// WritebackRequest is an eviction writeback from a higher level.
	WritebackRequest
	// PrefetchRequest is a speculative access generated by a prefetcher.
	PrefetchRequest
)

// String returns a human-readable name for the request type.
func (t RequestType) String() string {
	switch t {
	case ReadRequest:
		return "READ"
	case ReadForWriteRequest:
		return "READ_FOR_WRITE"
	case WriteRequest:
		return "WRITE"
	case WritebackRequest:
		return "WRITEBACK"
	case PrefetchRequest:
		return "PREFETCH"
	}
	return fmt.Sprintf("RequestType(%d)", int(t))
}

// ParseRequestType parses a request type from its name.
func ParseRequestType(name string) (RequestType, error) {
	switch strings.ToUpper(name) {
	case "READ":
		return ReadRequest, nil
	case "READ_FOR_WRITE", "RFW":
		return ReadForWriteRequest, nil
	case "WRITE":
		return WriteRequest, nil
	case "WRITEBACK":
		return WritebackRequest, nil
	case "PREFETCH":
		return PrefetchRequest, nil
	}
	return 0, fmt.Errorf("mem: unknown request type %q", name)
}

// Request is a single memory access traveling through the hierarchy.
type Request struct {
	// Type is the kind of access.
	Type RequestType
	// VirtAddr and PhysAddr are the virtual and physical addresses of the access.
	VirtAddr uint64
	PhysAddr uint64
	// Size is the access size in bytes.
	Size uint32
	// IP is the instruction pointer of the instruction that caused the access.
	IP uint64
	// ICount is the dynamic instruction count at the time of the access.
	ICount uint64
	// Cycle is the simulated cycle the request was generated at.
	Cycle Cycles
	// Issuer is the component that generated the request, nil for core accesses.
	Issuer Component
	// Destroy marks the request as consumed; the pipeline drops it instead
	// of forwarding it further.
	Destroy bool
}

// Component is a single component of the simulated memory hierarchy, driven
// synchronously by the host scheduler. The returned cycle counts indicate
// how long the component was busy processing.
type Component interface {
	// ProcessRequest handles a request on its way down the hierarchy.
	ProcessRequest(req *Request) Cycles
	// ProcessReturn handles a completed request on its way back up.
	ProcessReturn(req *Request) Cycles
	// HeartBeat is invoked periodically with the elapsed cycle count.
	HeartBeat(elapsed Cycles)
}

// Sender forwards requests to the next component down the hierarchy.
type Sender interface {
	Send(req *Request)
}

// BlockAddr returns addr truncated to its containing block of the given size.
func BlockAddr(addr, blockSize uint64) uint64 {
	return addr - addr%blockSize
}
