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

// Package log provides named, per-source leveled loggers on top of klog.
package log

import (
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// Logger is the interface for producing log messages for/from a particular source.
type Logger interface {
	// Debug formats and emits a debug message.
	Debug(format string, args ...interface{})
	// Info formats and emits an informational message.
	Info(format string, args ...interface{})
	// Warn formats and emits a warning message.
	Warn(format string, args ...interface{})
	// Error formats and emits an error message.
	Error(format string, args ...interface{})
	// Fatal formats and emits an error message, then exits with status 1.
	Fatal(format string, args ...interface{})

	// EnableDebug enables or disables debug messages for this Logger,
	// returning the previous setting.
	EnableDebug(bool) bool
	// DebugEnabled checks if debug messages are enabled for this Logger.
	DebugEnabled() bool

	// Source returns the source name of this Logger.
	Source() string
}

// logger implements Logger for a single named source.
type logger struct {
	source string
}

var (
	lock    sync.RWMutex
	loggers = make(map[string]*logger)
	debug   = make(map[string]bool)
)

// NewLogger creates a Logger for the given source, reusing an existing
// one if the source has been seen before.
func NewLogger(source string) Logger {
	lock.Lock()
	defer lock.Unlock()

	if l, ok := loggers[source]; ok {
		return l
	}
	l := &logger{source: source}
	loggers[source] = l

	return l
}

// Default returns the default, unprefixed Logger.
func Default() Logger {
	return NewLogger("")
}

// EnableDebugFor turns on debug logging for the given sources.
func EnableDebugFor(sources ...string) {
	lock.Lock()
	defer lock.Unlock()

	for _, source := range sources {
		debug[source] = true
	}
}

func (l *logger) prefix(msg string) string {
	if l.source == "" {
		return msg
	}
	return "[" + l.source + "] " + msg
}

func (l *logger) Debug(format string, args ...interface{}) {
	if !l.DebugEnabled() {
		return
	}
	klog.InfoDepth(1, l.prefix("D: "+fmt.Sprintf(format, args...)))
}

func (l *logger) Info(format string, args ...interface{}) {
	klog.InfoDepth(1, l.prefix(fmt.Sprintf(format, args...)))
}

func (l *logger) Warn(format string, args ...interface{}) {
	klog.WarningDepth(1, l.prefix(fmt.Sprintf(format, args...)))
}

func (l *logger) Error(format string, args ...interface{}) {
	klog.ErrorDepth(1, l.prefix(fmt.Sprintf(format, args...)))
}

func (l *logger) Fatal(format string, args ...interface{}) {
	klog.ExitDepth(1, l.prefix(fmt.Sprintf(format, args...)))
}

func (l *logger) EnableDebug(state bool) bool {
	lock.Lock()
	defer lock.Unlock()

	old := debug[l.source]
	debug[l.source] = state

	return old
}

func (l *logger) DebugEnabled() bool {
	lock.RLock()
	defer lock.RUnlock()

	return debug[l.source]
}

func (l *logger) Source() string {
	return l.source
}
