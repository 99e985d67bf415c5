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

// Command rvfmt is the pipeline's format stage: it reads IL from stdin
// (or -i), verifies every instruction under a "code" segment against its
// opcode's RV32I format class, and writes bit-field-tagged IL to stdout
// (or -o).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rv32x/rv32pipe/format"
	"github.com/rv32x/rv32pipe/ilfile"
	"github.com/rv32x/rv32pipe/internal/cli"
)

func main() {
	in := flag.String("i", "", "input file (default stdin)")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "rvfmt: %+v\n", err)
		os.Exit(1)
	}
}

func run(inName, outName string) error {
	r, closeIn, err := cli.OpenInput(inName)
	if err != nil {
		return err
	}
	defer closeIn()
	w, closeOut, err := cli.OpenOutput(outName)
	if err != nil {
		return err
	}
	defer closeOut()

	lines, err := ilfile.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := format.Run(lines)
	if err != nil {
		return err
	}
	return ilfile.WriteAll(w, out)
}
