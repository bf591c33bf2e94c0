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

// Package version tags built binaries with version metadata.
//
// The package variables are meant to be overridden at link time, for
// instance with
//
//	-ldflags "-X=github.com/cmplab/cmpsim/pkg/version.Version=$(git describe) \
//	          -X=github.com/cmplab/cmpsim/pkg/version.Build=$(git rev-parse HEAD)"
//
// Importing the package registers a -version flag that prints the
// metadata and exits.
package version

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default values of the variables overridden by the linker.
var (
	// Version is our version as given by 'git describe'.
	Version = "unknown"
	// Build is the SHA1 of the repository we have been built from.
	Build = "unknown"
)

// PrintVersionInfo prints version information about this binary.
func PrintVersionInfo() {
	fmt.Printf("%s version information:\n", filepath.Base(os.Args[0]))
	fmt.Printf("  - version: %s\n", Version)
	fmt.Printf("  - build:   %s\n", Build)
}

// version hooks into flag.Value to handle -version during parsing.
type version struct{}

// IsBoolFlag tells flag that we only have optional arguments.
func (version) IsBoolFlag() bool {
	return true
}

// Set is our flag.Value setter.
func (version) Set(value string) error {
	print, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	if print {
		PrintVersionInfo()
		os.Exit(0)
	}
	return nil
}

// String is our flag.Value stringification.
func (version) String() string {
	return Version
}

func init() {
	flag.Var(version{}, "version", "print version information and exit")
}
