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

// Command rvpack is the pipeline's pack stage: it reads fully resolved
// bit-field-tagged IL from stdin (or -i), concatenates each
// instruction's fields into a 32-bit word, and writes little-endian
// byte-tagged IL to stdout (or -o).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rv32x/rv32pipe/ilfile"
	"github.com/rv32x/rv32pipe/internal/cli"
	"github.com/rv32x/rv32pipe/wordpack"
)

func main() {
	in := flag.String("i", "", "input file (default stdin)")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "rvpack: %+v\n", err)
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
	out, err := wordpack.Run(lines)
	if err != nil {
		return err
	}
	return ilfile.WriteAll(w, out)
}
