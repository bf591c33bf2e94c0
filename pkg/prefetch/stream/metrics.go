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

package stream

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cmplab/cmpsim/pkg/metrics"
)

// Prometheus metric descriptor indices and descriptor table.
const (
	numPrefetchesDesc = iota
)

var descriptors = []*prometheus.Desc{
	numPrefetchesDesc: prometheus.NewDesc(
		"stream_prefetcher_num_prefetches",
		"Number of prefetches issued",
		[]string{"prefetcher"}, nil,
	),
}

// collector exposes the counters of all live prefetcher instances.
type collector struct {
	sync.Mutex
	prefetchers []*Prefetcher
}

var instanceCollector = &collector{}
var registerOnce sync.Once

func registerCollector(p *Prefetcher) {
	instanceCollector.Lock()
	instanceCollector.prefetchers = append(instanceCollector.prefetchers, p)
	instanceCollector.Unlock()

	registerOnce.Do(func() {
		err := metrics.RegisterCollector("stream-prefetcher", func() (prometheus.Collector, error) {
			return instanceCollector, nil
		})
		if err != nil {
			log.Error("failed to register metrics collector: %v", err)
		}
	})
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range descriptors {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.Lock()
	defer c.Unlock()

	for _, p := range c.prefetchers {
		ch <- prometheus.MustNewConstMetric(
			descriptors[numPrefetchesDesc],
			prometheus.CounterValue,
			float64(p.NumPrefetches()),
			p.name,
		)
	}
}
