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

package wordpack

import (
	"github.com/pkg/errors"

	"github.com/rv32x/rv32pipe/bitfield"
	"github.com/rv32x/rv32pipe/ilfile"
)

// Run packs every instruction line in the stream into four little-endian
// byte parts. Every part of an instruction line reaching this stage must
// already be a concrete, resolved bit-field; a symbolic reference here is
// a resolution error that survey should have caught.
func Run(lines []ilfile.Line) ([]ilfile.Line, error) {
	out := make([]ilfile.Line, len(lines))
	for i, l := range lines {
		if l.Kind != ilfile.Instr {
			out[i] = l
			continue
		}
		packed, err := packInstr(l)
		if err != nil {
			return nil, errors.Wrapf(err, "packing %q", l.Raw)
		}
		out[i] = packed
	}
	return out, nil
}

func packInstr(l ilfile.Line) (ilfile.Line, error) {
	fields := make([]bitfield.Field, len(l.Parts))
	for i, p := range l.Parts {
		if !p.IsInt {
			return ilfile.Line{}, errors.Errorf("unresolved reference %v", p)
		}
		w, err := p.Width()
		if err != nil {
			return ilfile.Line{}, err
		}
		f, err := bitfield.U(p.IntVal, w)
		if err != nil {
			return ilfile.Line{}, err
		}
		fields[i] = f
	}
	word := bitfield.Concat(fields...)
	if word.Width%8 != 0 {
		return ilfile.Line{}, errors.Errorf("total instruction width %d bits is not a multiple of 8", word.Width)
	}

	parts := make([]ilfile.Part, 0, word.Width/8)
	for i := uint(0); i < word.Width; i += 8 {
		b, err := bitfield.Slice(word, i+7, i)
		if err != nil {
			return ilfile.Line{}, err
		}
		parts = append(parts, ilfile.Part{IsInt: true, IntVal: int64(b.Value)})
	}
	return ilfile.Line{Kind: ilfile.Instr, Comment: l.Comment, Parts: parts, Dirty: true}, nil
}
