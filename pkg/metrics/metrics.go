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

// Package metrics implements a registry of named prometheus collectors.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	logger "github.com/cmplab/cmpsim/pkg/log"
)

// InitCollector is the type for functions that initialize collectors.
type InitCollector func() (prometheus.Collector, error)

var (
	lock       sync.Mutex
	collectors = make(map[string]InitCollector)
	log        = logger.NewLogger("metrics")
)

// RegisterCollector registers the named prometheus.Collector for metrics collection.
func RegisterCollector(name string, init InitCollector) error {
	lock.Lock()
	defer lock.Unlock()

	if _, ok := collectors[name]; ok {
		return metricsError("collector %q already registered", name)
	}

	log.Debug("registered collector %q", name)
	collectors[name] = init

	return nil
}

// NewMetricGatherer creates a prometheus.Gatherer with all registered collectors.
func NewMetricGatherer() (prometheus.Gatherer, error) {
	lock.Lock()
	defer lock.Unlock()

	reg := prometheus.NewPedanticRegistry()

	for name, init := range collectors {
		c, err := init()
		if err != nil {
			log.Error("failed to initialize collector %q: %v, skipping it", name, err)
			continue
		}
		if err := reg.Register(c); err != nil {
			return nil, metricsError("failed to register collector %q: %v", name, err)
		}
	}

	return reg, nil
}

func metricsError(format string, args ...interface{}) error {
	return fmt.Errorf("metrics: "+format, args...)
}
