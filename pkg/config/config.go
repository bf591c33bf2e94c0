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

// Package config implements a registry of named configuration modules.
//
// A module is a set of configuration variables owned by a single package.
// Variables are declared with the flag-like *Var functions of the Module
// and can then be set from YAML data, from a YAML file, or one by one
// with SetVar. Modules get notified after their variables change.
package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	logger "github.com/cmplab/cmpsim/pkg/log"
)

// NotifyFn is the type of functions notified about configuration changes.
type NotifyFn func() error

// Module is a named collection of configuration variables.
type Module struct {
	name        string
	description string
	notify      []NotifyFn
	*flag.FlagSet
}

var (
	lock    sync.Mutex
	modules = make(map[string]*Module)
	log     = logger.NewLogger("config")
)

// Register creates and registers a new configuration module.
func Register(name, description string) *Module {
	lock.Lock()
	defer lock.Unlock()

	if _, ok := modules[name]; ok {
		log.Fatal("can't register configuration module %q, already registered", name)
	}
	if description == "" {
		description = "<no description for configuration module " + name + ">"
	}

	m := &Module{
		name:        name,
		description: description,
		FlagSet:     flag.NewFlagSet(name, flag.ContinueOnError),
	}
	m.FlagSet.SetOutput(os.Stderr)
	modules[name] = m

	return m
}

// GetModule looks up the named configuration module.
func GetModule(name string) *Module {
	lock.Lock()
	defer lock.Unlock()

	return modules[name]
}

// ModuleNames returns the names of all registered modules, sorted.
func ModuleNames() []string {
	lock.Lock()
	defer lock.Unlock()

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Name returns the name of the module.
func (m *Module) Name() string {
	return m.name
}

// Description returns the description of the module.
func (m *Module) Description() string {
	return m.description
}

// SetVar sets the named variable of the module to the given value.
func (m *Module) SetVar(name, value string) error {
	f := m.Lookup(name)
	if f == nil {
		return configError("module %q: no variable %q", m.name, name)
	}
	if err := f.Value.Set(value); err != nil {
		return configError("module %q: failed to set %q to %q: %v", m.name, name, value, err)
	}

	log.Debug("%s.%s = %s", m.name, name, value)

	return nil
}

// Reset resets all variables of the module to their default values.
func (m *Module) Reset() error {
	var err error

	m.VisitAll(func(f *flag.Flag) {
		if e := f.Value.Set(f.DefValue); e != nil {
			err = configError("module %q: failed to reset %q: %v", m.name, f.Name, e)
		}
	})
	if err != nil {
		return err
	}

	return m.Notify()
}

// WatchUpdates registers a function to notify about changes to the module.
func (m *Module) WatchUpdates(fn NotifyFn) {
	m.notify = append(m.notify, fn)
}

// Notify runs the registered change notification functions of the module.
func (m *Module) Notify() error {
	for _, fn := range m.notify {
		if err := fn(); err != nil {
			return configError("module %q: configuration rejected: %v", m.name, err)
		}
	}
	return nil
}

// SetFromData updates modules from YAML configuration data. The data is
// a map of module names to maps of variable names and values. Unknown
// modules and variables are errors; all errors are collected and the
// valid assignments are still applied.
func SetFromData(data []byte) error {
	raw := map[string]map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return configError("failed to parse configuration data: %v", err)
	}

	var errs *multierror.Error
	touched := []*Module{}

	for _, name := range sortedKeys(raw) {
		m := GetModule(name)
		if m == nil {
			errs = multierror.Append(errs, configError("unknown configuration module %q", name))
			continue
		}
		for _, variable := range sortedKeys(raw[name]) {
			value := fmt.Sprintf("%v", raw[name][variable])
			if err := m.SetVar(variable, value); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		touched = append(touched, m)
	}

	for _, m := range touched {
		if err := m.Notify(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// SetFromFile updates modules from the given YAML configuration file.
func SetFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read configuration file %q", path)
	}

	log.Info("applying configuration from file %s", path)

	return SetFromData(data)
}

// SetFromArgs updates modules from command line style arguments of the
// form <module>.<variable>=<value>.
func SetFromArgs(args []string) error {
	var errs *multierror.Error

	for _, arg := range args {
		assign := strings.SplitN(arg, "=", 2)
		if len(assign) != 2 {
			errs = multierror.Append(errs, configError("invalid assignment %q", arg))
			continue
		}
		dot := strings.LastIndex(assign[0], ".")
		if dot < 0 {
			errs = multierror.Append(errs,
				configError("invalid assignment %q, expecting <module>.<variable>=<value>", arg))
			continue
		}
		name, variable := assign[0][:dot], assign[0][dot+1:]
		m := GetModule(name)
		if m == nil {
			errs = multierror.Append(errs, configError("unknown configuration module %q", name))
			continue
		}
		if err := m.SetVar(variable, assign[1]); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if err := m.Notify(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func configError(format string, args ...interface{}) error {
	return fmt.Errorf("config: "+format, args...)
}
