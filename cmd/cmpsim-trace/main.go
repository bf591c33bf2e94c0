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

// cmpsim-trace replays a memory access trace through a stream prefetcher
// and reports the prefetches it would have issued.
//
// Trace format: one access per line,
//
//	<cycle> <type> <virtual-address> <physical-address> <ip> <icount>
//
// with addresses and counters in any base strconv accepts (0x... works).
// Empty lines and lines starting with '#' are skipped.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/common/expfmt"

	"github.com/cmplab/cmpsim/pkg/config"
	"github.com/cmplab/cmpsim/pkg/mem"
	"github.com/cmplab/cmpsim/pkg/metrics"
	"github.com/cmplab/cmpsim/pkg/prefetch/stream"

	logger "github.com/cmplab/cmpsim/pkg/log"
	_ "github.com/cmplab/cmpsim/pkg/version"
)

// capturingSink collects the prefetch requests emitted downstream.
type capturingSink struct {
	issued []*mem.Request
}

func (s *capturingSink) Send(req *mem.Request) {
	s.issued = append(s.issued, req)
}

func main() {
	log := logger.Default()

	flag.Parse()

	if opt.debug != "" {
		logger.EnableDebugFor(strings.Split(opt.debug, ",")...)
	}
	if opt.configFile != "" {
		if err := config.SetFromFile(opt.configFile); err != nil {
			log.Fatal("failed to apply configuration: %v", err)
		}
	}
	if args := flag.Args(); len(args) > 0 {
		if err := config.SetFromArgs(args); err != nil {
			log.Fatal("failed to apply configuration arguments: %v", err)
		}
	}

	sink := &capturingSink{}
	p, err := stream.New(nil, sink)
	if err != nil {
		log.Fatal("failed to create stream prefetcher: %v", err)
	}

	accesses, err := replayTrace(p, opt.trace)
	if err != nil {
		log.Fatal("failed to replay trace: %v", err)
	}

	for _, req := range sink.issued {
		fmt.Printf("prefetch cycle=%d vaddr=%#x paddr=%#x ip=%#x\n",
			req.Cycle, req.VirtAddr, req.PhysAddr, req.IP)
	}
	if opt.reflectReturns {
		dropped := 0
		for _, req := range sink.issued {
			p.ProcessReturn(req)
			if req.Destroy {
				dropped++
			}
		}
		log.Info("%d/%d returned prefetches consumed", dropped, len(sink.issued))
	}

	log.Info("replayed %d accesses, issued %d prefetches", accesses, p.NumPrefetches())

	if opt.dumpMetrics {
		if err := dumpMetrics(); err != nil {
			log.Error("failed to dump metrics: %v", err)
		}
	}
}

// replayTrace feeds every access of the trace to the prefetcher and
// returns the number of accesses replayed.
func replayTrace(p *stream.Prefetcher, path string) (int, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to open trace %q", path)
		}
		defer f.Close()
		in = f
	}

	accesses := 0
	lineno := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		req, err := parseAccess(line)
		if err != nil {
			return accesses, errors.Wrapf(err, "line %d", lineno)
		}
		p.ProcessRequest(req)
		accesses++
	}
	if err := scanner.Err(); err != nil {
		return accesses, errors.Wrap(err, "failed to read trace")
	}

	return accesses, nil
}

// parseAccess parses a single trace line into a request.
func parseAccess(line string) (*mem.Request, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	reqType, err := mem.ParseRequestType(fields[1])
	if err != nil {
		return nil, err
	}

	numbers := make([]uint64, 5)
	for i, idx := range []int{0, 2, 3, 4, 5} {
		n, err := strconv.ParseUint(fields[idx], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid field %q: %v", fields[idx], err)
		}
		numbers[i] = n
	}

	return &mem.Request{
		Type:     reqType,
		Cycle:    mem.Cycles(numbers[0]),
		VirtAddr: numbers[1],
		PhysAddr: numbers[2],
		IP:       numbers[3],
		ICount:   numbers[4],
	}, nil
}

// dumpMetrics writes all registered metrics to stdout in text format.
func dumpMetrics() error {
	gatherer, err := metrics.NewMetricGatherer()
	if err != nil {
		return err
	}
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}

	enc := expfmt.NewEncoder(os.Stdout, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "failed to encode metrics")
		}
	}

	return nil
}
