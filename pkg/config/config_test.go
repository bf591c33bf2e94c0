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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testOptions struct {
	count   uint
	enabled bool
	name    string
}

func registerTestModule(t *testing.T, name string) (*Module, *testOptions) {
	t.Helper()

	opt := &testOptions{}
	m := Register(name, "module for testing")
	m.UintVar(&opt.count, "count", 4, "a counter")
	m.BoolVar(&opt.enabled, "enabled", false, "a switch")
	m.StringVar(&opt.name, "name", "default", "a name")

	return m, opt
}

func TestSetVar(t *testing.T) {
	m, opt := registerTestModule(t, "test.setvar")

	require.NoError(t, m.SetVar("count", "7"))
	require.NoError(t, m.SetVar("enabled", "true"))
	require.NoError(t, m.SetVar("name", "updated"))
	require.Equal(t, uint(7), opt.count)
	require.Equal(t, true, opt.enabled)
	require.Equal(t, "updated", opt.name)

	require.Error(t, m.SetVar("no-such-variable", "1"))
	require.Error(t, m.SetVar("count", "not-a-number"))
}

func TestSetFromData(t *testing.T) {
	_, opt := registerTestModule(t, "test.data")

	data := []byte(`
test.data:
  count: 12
  enabled: true
  name: from-yaml
`)
	require.NoError(t, SetFromData(data))
	require.Equal(t, uint(12), opt.count)
	require.Equal(t, true, opt.enabled)
	require.Equal(t, "from-yaml", opt.name)

	require.Error(t, SetFromData([]byte("no.such.module:\n  foo: 1\n")))
}

func TestNotify(t *testing.T) {
	m, opt := registerTestModule(t, "test.notify")

	notified := 0
	m.WatchUpdates(func() error {
		notified++
		if opt.count == 0 {
			return configError("count must be > 0")
		}
		return nil
	})

	require.NoError(t, SetFromData([]byte("test.notify:\n  count: 3\n")))
	require.Equal(t, 1, notified)

	require.Error(t, SetFromData([]byte("test.notify:\n  count: 0\n")))
	require.Equal(t, 2, notified)
}

func TestSetFromArgs(t *testing.T) {
	_, opt := registerTestModule(t, "test.args")

	require.NoError(t, SetFromArgs([]string{
		"test.args.count=9",
		"test.args.enabled=true",
	}))
	require.Equal(t, uint(9), opt.count)
	require.Equal(t, true, opt.enabled)

	require.Error(t, SetFromArgs([]string{"test.args.count"}))
	require.Error(t, SetFromArgs([]string{"nomodule=1"}))
	require.Error(t, SetFromArgs([]string{"no.such.module.var=1"}))
}

func TestReset(t *testing.T) {
	m, opt := registerTestModule(t, "test.reset")

	require.NoError(t, m.SetVar("count", "42"))
	require.Equal(t, uint(42), opt.count)
	require.NoError(t, m.Reset())
	require.Equal(t, uint(4), opt.count)
}
