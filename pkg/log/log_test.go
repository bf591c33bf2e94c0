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

package log

import (
	"testing"
)

func TestLoggerIdentity(t *testing.T) {
	l1 := NewLogger("test-source")
	l2 := NewLogger("test-source")
	if l1 != l2 {
		t.Errorf("expected NewLogger to reuse loggers for the same source")
	}
	if l1.Source() != "test-source" {
		t.Errorf("expected source %q, got %q", "test-source", l1.Source())
	}
}

func TestDebugEnabling(t *testing.T) {
	l := NewLogger("debug-test")
	if l.DebugEnabled() {
		t.Errorf("debugging should be off by default")
	}
	if old := l.EnableDebug(true); old {
		t.Errorf("EnableDebug should report previous state false")
	}
	if !l.DebugEnabled() {
		t.Errorf("debugging should be on after EnableDebug(true)")
	}
	if old := l.EnableDebug(false); !old {
		t.Errorf("EnableDebug should report previous state true")
	}

	EnableDebugFor("other-source")
	if !NewLogger("other-source").DebugEnabled() {
		t.Errorf("EnableDebugFor should enable debugging for the source")
	}
}
