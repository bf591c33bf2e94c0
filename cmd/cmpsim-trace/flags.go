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
	"flag"
)

// options captures our main command line options.
type options struct {
	// configFile is an optional YAML file to read configuration from.
	configFile string
	// trace is the access trace to replay, "-" for stdin.
	trace string
	// reflectReturns feeds issued prefetches back through the return path.
	reflectReturns bool
	// dumpMetrics prints the metric registry in prometheus text format.
	dumpMetrics bool
	// debug is a comma-separated list of logger sources to debug.
	debug string
}

var opt = options{}

func init() {
	flag.StringVar(&opt.configFile, "config", "",
		"file to read configuration from")
	flag.StringVar(&opt.trace, "trace", "-",
		"access trace file to replay, - for stdin")
	flag.BoolVar(&opt.reflectReturns, "reflect-returns", false,
		"deliver issued prefetches back through the return path")
	flag.BoolVar(&opt.dumpMetrics, "dump-metrics", false,
		"dump collected metrics in prometheus text format on exit")
	flag.StringVar(&opt.debug, "debug", "",
		"comma-separated list of logger sources to enable debugging for")
}
