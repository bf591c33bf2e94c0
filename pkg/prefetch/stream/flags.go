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
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cmplab/cmpsim/pkg/config"
	"github.com/cmplab/cmpsim/pkg/table"
)

// ConfigModule is the name of our configuration module.
const ConfigModule = "prefetcher.stream"

// Options captures our configurable parameters.
type Options struct {
	// BlockSize is the cache block size in bytes, the address quantization unit.
	BlockSize uint64
	// PrefetchOnWrite controls whether read-for-ownership accesses train streams.
	PrefetchOnWrite bool
	// TableSize is the maximum number of concurrently tracked streams.
	TableSize uint
	// TablePolicy is the eviction policy of the stream table.
	TablePolicy string
	// TrainDistance is the training-match window radius in blocks.
	TrainDistance uint
	// NumTrains is the number of consecutive same-direction hits needed to train.
	NumTrains uint
	// Distance is the trained prefetch window span in blocks.
	Distance uint
	// Degree is the maximum number of prefetches issued per triggering access.
	Degree uint
}

// Our configuration module and configured options.
var (
	cfg *config.Module
	opt = defaultOptions()
)

// defaultOptions returns options initialized to their defaults.
func defaultOptions() *Options {
	return &Options{
		BlockSize:       64,
		PrefetchOnWrite: false,
		TableSize:       16,
		TablePolicy:     "lru",
		TrainDistance:   16,
		NumTrains:       2,
		Distance:        24,
		Degree:          4,
	}
}

// CurrentOptions returns a copy of the configured options.
func CurrentOptions() *Options {
	o := *opt
	return &o
}

// Validate checks the options for sane values.
func (o *Options) Validate() error {
	var errs *multierror.Error

	if o.BlockSize == 0 {
		errs = multierror.Append(errs, prefetcherError("block-size must be > 0"))
	}
	if o.TableSize < 1 {
		errs = multierror.Append(errs, prefetcherError("table-size must be >= 1"))
	}
	if o.TrainDistance < 1 {
		errs = multierror.Append(errs, prefetcherError("train-distance must be >= 1"))
	}
	if o.NumTrains < 1 {
		errs = multierror.Append(errs, prefetcherError("num-trains must be >= 1"))
	}
	if o.Distance < 1 {
		errs = multierror.Append(errs, prefetcherError("distance must be >= 1"))
	}
	if o.Degree < 1 {
		errs = multierror.Append(errs, prefetcherError("degree must be >= 1"))
	}

	known := false
	for _, name := range table.PolicyNames() {
		if name == o.TablePolicy {
			known = true
			break
		}
	}
	if !known {
		errs = multierror.Append(errs, prefetcherError("unknown table-policy %q, available: %s",
			o.TablePolicy, strings.Join(table.PolicyNames(), ", ")))
	}

	return errs.ErrorOrNil()
}

// Register us for configuration handling.
func init() {
	cfg = config.Register(ConfigModule, "stream prefetcher parameters")
	cfg.Uint64Var(&opt.BlockSize, "block-size", opt.BlockSize,
		"cache block size in bytes")
	cfg.BoolVar(&opt.PrefetchOnWrite, "prefetch-on-write", opt.PrefetchOnWrite,
		"train streams on read-for-ownership accesses")
	cfg.UintVar(&opt.TableSize, "table-size", opt.TableSize,
		"maximum number of tracked streams")
	cfg.StringVar(&opt.TablePolicy, "table-policy", opt.TablePolicy,
		"eviction policy of the stream table")
	cfg.UintVar(&opt.TrainDistance, "train-distance", opt.TrainDistance,
		"training-match window radius in blocks")
	cfg.UintVar(&opt.NumTrains, "num-trains", opt.NumTrains,
		"same-direction hits needed to train a stream")
	cfg.UintVar(&opt.Distance, "distance", opt.Distance,
		"trained prefetch window span in blocks")
	cfg.UintVar(&opt.Degree, "degree", opt.Degree,
		"maximum prefetches issued per access")
	cfg.WatchUpdates(func() error {
		return opt.Validate()
	})
}
