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

// Command rvsurvey is the pipeline's survey stage: it reads
// bit-field-tagged IL with symbolic references from stdin (or -i),
// assigns an address to every label and instruction, resolves every
// reference, and writes fully concrete IL to stdout (or -o).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rv32x/rv32pipe/ilfile"
	"github.com/rv32x/rv32pipe/internal/cli"
	"github.com/rv32x/rv32pipe/survey"
)

func main() {
	in := flag.String("i", "", "input file (default stdin)")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "rvsurvey: %+v\n", err)
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
	out, err := survey.Run(lines)
	if err != nil {
		return err
	}
	return ilfile.WriteAll(w, out)
}
