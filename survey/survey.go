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

package survey

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/rv32x/rv32pipe/bitfield"
	"github.com/rv32x/rv32pipe/ilfile"
)

// Run performs the two-pass address assignment and label resolution over
// a complete line stream. Segment headers and resolved instructions
// survive into the output, in their original relative order; label and
// empty lines are dropped.
func Run(lines []ilfile.Line) ([]ilfile.Line, error) {
	out := make([]ilfile.Line, 0, len(lines))
	addrs := make([]int64, 0, len(lines))
	symtab := map[string]int64{}

	var cur int64
	var inSegment bool

	for _, l := range lines {
		switch l.Kind {
		case ilfile.Segment:
			cur = l.SegAddr
			inSegment = true
			out = append(out, l)
			addrs = append(addrs, cur)
		case ilfile.Label:
			// Duplicate labels overwrite silently; no warning is raised.
			symtab[l.Label] = cur
		case ilfile.Empty:
			// Dropped: carries no information past this stage.
		case ilfile.Instr:
			if !inSegment {
				return nil, errors.Errorf("instruction outside any segment: %q", l.Raw)
			}
			w, err := instrWidth(l)
			if err != nil {
				return nil, errors.Wrapf(err, "line %q", l.Raw)
			}
			if w%8 != 0 {
				return nil, errors.Errorf("line %q: total width %d bits is not a multiple of 8", l.Raw, w)
			}
			out = append(out, l)
			addrs = append(addrs, cur)
			cur += int64(w / 8)
		}
	}

	for i, l := range out {
		if l.Kind != ilfile.Instr {
			continue
		}
		resolved, err := resolveInstr(l, addrs[i], symtab)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %q", l.Raw)
		}
		out[i] = resolved
	}
	return out, nil
}

func instrWidth(l ilfile.Line) (uint, error) {
	var total uint
	for _, p := range l.Parts {
		w, err := p.Width()
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

func resolveInstr(l ilfile.Line, addr int64, symtab map[string]int64) (ilfile.Line, error) {
	parts := make([]ilfile.Part, len(l.Parts))
	for i, p := range l.Parts {
		if p.IsInt {
			parts[i] = p
			continue
		}
		resolved, err := resolvePart(p, addr, symtab)
		if err != nil {
			return ilfile.Line{}, err
		}
		parts[i] = resolved
	}
	return ilfile.Line{Kind: ilfile.Instr, Comment: l.Comment, Parts: parts, Dirty: true}, nil
}

func resolvePart(p ilfile.Part, addr int64, symtab map[string]int64) (ilfile.Part, error) {
	mode, _, ok := p.Mode()
	if !ok {
		return ilfile.Part{}, errors.Errorf("reference %v: missing mode/width tag", p)
	}
	if !p.HasSlice {
		return ilfile.Part{}, errors.Errorf("reference %v: missing bit-range slice", p)
	}
	target, found := symtab[p.RefLabel]
	if !found {
		return ilfile.Part{}, errors.Errorf("undefined label %q", p.RefLabel)
	}

	var full bitfield.Field
	var err error
	switch mode {
	case "imm":
		full, err = bitfield.U(target, 32)
	case "off":
		full, err = bitfield.I(target-addr, 32)
	default:
		return ilfile.Part{}, errors.Errorf("reference %v: unknown mode %q", p, mode)
	}
	if err != nil {
		return ilfile.Part{}, errors.Wrapf(err, "resolving %q", p.RefLabel)
	}

	sliced, err := bitfield.Slice(full, uint(p.RefHi), uint(p.RefLo))
	if err != nil {
		return ilfile.Part{}, errors.Wrapf(err, "slicing resolved %q", p.RefLabel)
	}
	return ilfile.Part{IsInt: true, IntVal: int64(sliced.Value), Tags: []string{strconv.Itoa(int(sliced.Width))}}, nil
}
