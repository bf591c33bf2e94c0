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

// Package testutils provides shared test helpers.
package testutils

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

// VerifyDeepEqual checks that two values are equal, or else fails the test.
func VerifyDeepEqual(t *testing.T, valueName string, expected interface{}, seen interface{}) bool {
	t.Helper()

	if reflect.DeepEqual(expected, seen) {
		return true
	}
	t.Errorf("expected %s value %+v, got %+v", valueName, expected, seen)
	return false
}

// VerifyError checks that a (multi)error has the expected error count and
// message substrings, or else fails the test.
func VerifyError(t *testing.T, err error, expectedCount int, expectedSubstrings []string) bool {
	t.Helper()

	switch {
	case expectedCount > 0:
		if err == nil {
			t.Errorf("expected %d errors, got nil", expectedCount)
			return false
		}
		merr, ok := err.(*multierror.Error)
		if !ok {
			t.Errorf("expected %d errors, got %#v instead of a multierror", expectedCount, err)
			return false
		}
		if len(merr.Errors) != expectedCount {
			t.Errorf("expected %d errors, got %d: %v", expectedCount, len(merr.Errors), merr)
			return false
		}
	case expectedCount == 0:
		if err != nil {
			t.Errorf("expected no errors, got %v", err)
			return false
		}
	}

	for _, substring := range expectedSubstrings {
		if !strings.Contains(err.Error(), substring) {
			t.Errorf("expected error with substring %q, got %q", substring, err.Error())
		}
	}

	return true
}
