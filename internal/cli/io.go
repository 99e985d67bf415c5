// This file is part of rv32pipe.
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

// Package cli holds the stdin/stdout-filter plumbing shared by every
// stage binary: each stage is "read a file or stdin, write a file or
// stdout", nothing more.
package cli

import (
	"os"

	"github.com/pkg/errors"
)

// OpenInput opens name for reading, or returns os.Stdin if name is empty.
// The returned close func is always safe to call.
func OpenInput(name string) (*os.File, func(), error) {
	if name == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "opening input")
	}
	return f, func() { f.Close() }, nil
}

// OpenOutput creates name for writing, or returns os.Stdout if name is
// empty. The returned close func is always safe to call.
func OpenOutput(name string) (*os.File, func(), error) {
	if name == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "creating output")
	}
	return f, func() { f.Close() }, nil
}
