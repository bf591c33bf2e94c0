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

// Package stream implements a stream prefetcher in the manner of the IBM
// POWER family prefetch engines. It watches the miss stream for monotonic
// address sequences, learns their direction and issues prefetches a bounded
// distance ahead of the observed accesses.
package stream

import (
	"fmt"
	"sync/atomic"

	"github.com/cmplab/cmpsim/pkg/mem"
	"github.com/cmplab/cmpsim/pkg/table"

	logger "github.com/cmplab/cmpsim/pkg/log"
)

// Direction classifies the traveled direction of a stream.
type Direction int

const (
	// None means the stream has no confirmed direction yet.
	None Direction = iota
	// Forward streams move toward higher addresses.
	Forward
	// Backward streams move toward lower addresses.
	Backward
)

// Stride returns the signed per-block step of the direction.
func (d Direction) Stride() int64 {
	switch d {
	case Forward:
		return 1
	case Backward:
		return -1
	}
	return 0
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case None:
		return "none"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// streamEntry tracks a single detected address stream.
type streamEntry struct {
	// allocMissAddr is the block address that allocated the entry, and ip
	// the instruction pointer of the allocating access.
	allocMissAddr uint64
	ip            uint64

	// sp and ep bound the tracked virtual address window: the observed
	// access scatter while training, the sliding prefetch window once
	// trained. For backward streams ep runs below sp.
	sp uint64
	ep uint64

	// psp and pep are the physical counterparts of sp and ep.
	psp uint64
	pep uint64

	trainHits uint
	trained   bool
	direction Direction
}

// Prefetcher is a stream prefetcher. It is driven one access at a time
// through mem.Component and is not safe for concurrent use; simulated
// hardware contexts must each own their own instance.
type Prefetcher struct {
	name    string
	opts    Options
	next    mem.Sender
	streams *table.Table[uint32, streamEntry]

	// nextKey is a running index so stream keys are never reused.
	nextKey uint32

	trainAddrDistance    uint64
	prefetchAddrDistance uint64

	numPrefetches uint64
}

var (
	log       = logger.NewLogger("stream-prefetcher")
	instances uint64
)

// New creates a stream prefetcher emitting prefetches to next. A nil opts
// uses the configured module options.
func New(opts *Options, next mem.Sender) (*Prefetcher, error) {
	if opts == nil {
		opts = CurrentOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, prefetcherError("no downstream sender")
	}

	streams, err := table.New[uint32, streamEntry](int(opts.TableSize), opts.TablePolicy)
	if err != nil {
		return nil, prefetcherError("failed to create stream table: %v", err)
	}

	p := &Prefetcher{
		name:                 fmt.Sprintf("stream%d", atomic.AddUint64(&instances, 1)-1),
		opts:                 *opts,
		next:                 next,
		streams:              streams,
		trainAddrDistance:    uint64(opts.TrainDistance) * opts.BlockSize,
		prefetchAddrDistance: uint64(opts.Distance) * opts.BlockSize,
	}
	registerCollector(p)

	log.Info("%s: table %d/%s, train %d blocks x %d hits, distance %d, degree %d",
		p.name, opts.TableSize, opts.TablePolicy, opts.TrainDistance, opts.NumTrains,
		opts.Distance, opts.Degree)

	return p, nil
}

// Name returns the instance name of the prefetcher.
func (p *Prefetcher) Name() string {
	return p.name
}

// NumPrefetches returns the number of prefetches issued so far.
func (p *Prefetcher) NumPrefetches() uint64 {
	return atomic.LoadUint64(&p.numPrefetches)
}

// ProcessRequest examines one incoming access, updating stream tracking
// state and issuing prefetches for trained streams.
func (p *Prefetcher) ProcessRequest(req *mem.Request) mem.Cycles {
	switch req.Type {
	case mem.WriteRequest, mem.WritebackRequest, mem.PrefetchRequest:
		return 0
	case mem.ReadForWriteRequest:
		if !p.opts.PrefetchOnWrite {
			return 0
		}
	}

	vcla := mem.BlockAddr(req.VirtAddr, p.opts.BlockSize)
	pcla := mem.BlockAddr(req.PhysAddr, p.opts.BlockSize)

	key, hit := p.matchStream(vcla)
	if !hit {
		p.allocateStream(vcla, pcla, req.IP)
		return 0
	}

	// Mutable read, also refreshes the entry's eviction state.
	entry, ok := p.streams.Read(key)
	if !ok {
		return 0
	}

	if !entry.trained {
		p.train(entry, vcla, pcla)
	}
	if entry.trained {
		p.issue(entry, req)
	}
	p.dropOverlappingStreams(key, entry)

	return 0
}

// ProcessReturn consumes completed prefetches issued by this prefetcher.
func (p *Prefetcher) ProcessReturn(req *mem.Request) mem.Cycles {
	if req.Issuer == mem.Component(p) {
		req.Destroy = true
	}
	return 0
}

// HeartBeat implements mem.Component; the prefetcher has no periodic work.
func (p *Prefetcher) HeartBeat(elapsed mem.Cycles) {
}

// matchStream scans the stream table in slot order and returns the key of
// the first entry the block address belongs to.
func (p *Prefetcher) matchStream(vcla uint64) (uint32, bool) {
	for i := 0; i < p.streams.Cap(); i++ {
		key, valid, entry := p.streams.EntryAt(i)
		if !valid {
			continue
		}
		if !entry.trained {
			if absDistance(entry.allocMissAddr, vcla) < p.trainAddrDistance {
				return key, true
			}
			continue
		}
		// Monitor-window test is an ascending range check. Backward
		// streams keep ep below sp, so in practice they never re-hit
		// their own window; overlap removal and fresh allocation pick
		// them up instead.
		if entry.sp <= vcla && entry.ep >= vcla {
			return key, true
		}
	}
	return 0, false
}

// train accumulates direction evidence for an untrained entry and promotes
// it once enough consecutive same-direction hits accrue.
func (p *Prefetcher) train(entry *streamEntry, vcla, pcla uint64) {
	if entry.allocMissAddr < vcla {
		if entry.direction == Forward {
			entry.trainHits++
			if vcla > entry.ep {
				entry.ep = vcla
				entry.pep = pcla
			}
		} else {
			// New direction, the window collapses to this hit.
			entry.trainHits = 1
			entry.direction = Forward
			entry.ep = vcla
			entry.pep = pcla
		}
	} else {
		if entry.direction == Backward {
			entry.trainHits++
			if vcla < entry.ep {
				entry.ep = vcla
				entry.pep = pcla
			}
		} else {
			entry.trainHits = 1
			entry.direction = Backward
			entry.ep = vcla
			entry.pep = pcla
		}
	}

	if entry.trainHits >= p.opts.NumTrains {
		entry.trained = true
		log.Debug("stream @%#x trained %s, window [%#x, %#x]",
			entry.allocMissAddr, entry.direction, entry.sp, entry.ep)
	}
}

// issue emits as many prefetches as the trained window permits, bounded by
// the configured degree, then slides the window's trailing edge forward.
func (p *Prefetcher) issue(entry *streamEntry, req *mem.Request) {
	blockSize := int64(p.opts.BlockSize)
	stride := entry.direction.Stride() * blockSize

	// The window may not extend further than distance blocks past sp in
	// the traveled direction.
	span := int64(p.prefetchAddrDistance) + blockSize
	var room int64
	switch entry.direction {
	case Forward:
		room = int64(entry.sp) + span - int64(entry.ep)
	case Backward:
		room = int64(entry.ep) - (int64(entry.sp) - span)
	}

	maxPrefetches := room / blockSize
	if maxPrefetches < 0 {
		maxPrefetches = 0
	}
	count := maxPrefetches
	if count > int64(p.opts.Degree) {
		count = int64(p.opts.Degree)
	}

	for i := int64(0); i < count; i++ {
		entry.ep = uint64(int64(entry.ep) + stride)
		entry.pep = uint64(int64(entry.pep) + stride)
		p.next.Send(&mem.Request{
			Type:     mem.PrefetchRequest,
			VirtAddr: entry.ep,
			PhysAddr: entry.pep,
			Size:     uint32(p.opts.BlockSize),
			IP:       req.IP,
			ICount:   req.ICount,
			Cycle:    req.Cycle,
			Issuer:   p,
		})
	}
	atomic.AddUint64(&p.numPrefetches, uint64(count))

	switch {
	case entry.direction == Forward && entry.ep-entry.sp > p.prefetchAddrDistance:
		entry.sp = entry.ep - p.prefetchAddrDistance
	case entry.direction == Backward && entry.sp-entry.ep > p.prefetchAddrDistance:
		entry.sp = entry.ep + p.prefetchAddrDistance
	}
}

// dropOverlappingStreams invalidates every other entry whose window end
// points fall inside the active entry's window, oriented by the active
// entry's direction. Overlapping windows are duplicate detections of the
// same stream and would double the prefetch traffic.
func (p *Prefetcher) dropOverlappingStreams(active uint32, entry *streamEntry) {
	for i := 0; i < p.streams.Cap(); i++ {
		key, valid, other := p.streams.EntryAt(i)
		if !valid || key == active {
			continue
		}
		overlap := false
		switch entry.direction {
		case Forward:
			overlap = (other.sp >= entry.sp && other.sp <= entry.ep) ||
				(other.ep >= entry.sp && other.ep <= entry.ep)
		case Backward:
			overlap = (other.sp <= entry.sp && other.sp >= entry.ep) ||
				(other.ep <= entry.sp && other.ep >= entry.ep)
		}
		if overlap {
			log.Debug("dropping stream @%#x, window overlaps stream @%#x",
				other.allocMissAddr, entry.allocMissAddr)
			p.streams.Invalidate(key)
		}
	}
}

// allocateStream creates a fresh untrained entry for a non-matching access.
func (p *Prefetcher) allocateStream(vcla, pcla, ip uint64) {
	entry := streamEntry{
		allocMissAddr: vcla,
		ip:            ip,
		sp:            vcla,
		ep:            vcla,
		psp:           pcla,
		pep:           pcla,
		direction:     None,
	}
	if err := p.streams.Insert(p.nextKey, entry); err != nil {
		log.Error("failed to allocate stream @%#x: %v", vcla, err)
		return
	}
	p.nextKey++
}

// absDistance returns |a - b| with two's complement wraparound semantics.
func absDistance(a, b uint64) uint64 {
	d := int64(a - b)
	if d < 0 {
		d = -d
	}
	return uint64(d)
}

func prefetcherError(format string, args ...interface{}) error {
	return fmt.Errorf("stream-prefetcher: "+format, args...)
}
