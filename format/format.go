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

package format

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/rv32x/rv32pipe/bitfield"
	"github.com/rv32x/rv32pipe/ilfile"
)

type packer func(ops []ilfile.Part) ([]ilfile.Part, error)

type entry struct {
	pack   packer
	opcode int64
}

var instrMap = map[string]entry{
	"load":   {packI, 0x03},
	"opi":    {packI, 0x13},
	"jalr":   {packI, 0x67},
	"store":  {packS, 0x23},
	"branch": {packB, 0x63},
	"lui":    {packU, 0x37},
	"auipc":  {packU, 0x17},
	"jal":    {packJ, 0x6f},
}

// Run applies the format stage to a complete line stream. Instruction
// lines under the "code" segment are verified and packed; every other
// line, including instructions under any other segment, is returned
// unchanged.
func Run(lines []ilfile.Line) ([]ilfile.Line, error) {
	out := make([]ilfile.Line, 0, len(lines))
	segment := ""
	for _, l := range lines {
		switch l.Kind {
		case ilfile.Segment:
			segment = l.Seg
			out = append(out, l)
		case ilfile.Instr:
			if segment != "code" {
				out = append(out, l)
				continue
			}
			nl, err := formatInstr(l)
			if err != nil {
				return nil, errors.Wrapf(err, "formatting %q", l.Raw)
			}
			out = append(out, nl)
		default:
			out = append(out, l)
		}
	}
	return out, nil
}

func formatInstr(l ilfile.Line) (ilfile.Line, error) {
	if len(l.Parts) == 0 {
		return ilfile.Line{}, errors.New("empty instruction")
	}
	op := l.Parts[0]
	if !op.IsInt || len(op.Tags) != 1 {
		return ilfile.Line{}, errors.Errorf("instruction without opcode label: %v", op)
	}
	label := op.Tags[0]
	e, ok := instrMap[label]
	if !ok {
		return ilfile.Line{}, errors.Errorf("unknown instruction label: %s", label)
	}
	if op.IntVal != e.opcode {
		return ilfile.Line{}, errors.Errorf("opcode %#x doesn't match label %s (expected %#x)", op.IntVal, label, e.opcode)
	}
	packed, err := e.pack(l.Parts[1:])
	if err != nil {
		return ilfile.Line{}, err
	}
	opField, err := bitfield.U(op.IntVal, 7)
	if err != nil {
		return ilfile.Line{}, err
	}
	parts := append([]ilfile.Part{fieldPart(opField)}, packed...)
	return ilfile.Line{Kind: ilfile.Instr, Comment: l.Comment, Parts: parts, Dirty: true}, nil
}

func fieldPart(f bitfield.Field) ilfile.Part {
	return ilfile.Part{IsInt: true, IntVal: int64(f.Value), Tags: []string{strconv.Itoa(int(f.Width))}}
}

func refPart(r bitfield.Ref) ilfile.Part {
	return ilfile.Part{
		RefLabel: r.Label,
		RefHi:    int(r.Hi), RefLo: int(r.Lo), HasSlice: r.HasBounds,
		Tags: []string{r.Mode + strconv.Itoa(int(r.Size))},
	}
}

func valuePart(v bitfield.Value) ilfile.Part {
	if !v.Symbolic {
		return fieldPart(v.F)
	}
	return refPart(v.R)
}

// untagU reads a required concrete unsigned operand with the given role
// tag (e.g. "rd", "rs", "subop").
func untagU(p ilfile.Part, role string, width uint) (bitfield.Field, error) {
	if !p.IsInt {
		return bitfield.Field{}, errors.Errorf("operand %v: expected concrete %s, got a reference", p, role)
	}
	if p.Role() != role {
		return bitfield.Field{}, errors.Errorf("operand %v: expected tag %q, got %q", p, role, p.Role())
	}
	return bitfield.U(p.IntVal, width)
}

// immediate reads an operand that is either a concrete signed integer or a
// symbolic reference tagged with the given mode (e.g. "imm12", "off20"),
// applying the format's default bit range to bare references.
func immediate(p ilfile.Part, wantMode string, width uint, defHi, defLo uint) (bitfield.Value, error) {
	mode, size, ok := p.Mode()
	if p.IsInt {
		if !ok || mode != wantMode || size != width {
			return bitfield.Value{}, errors.Errorf("operand %v: expected tag %q, got %q", p, wantMode+itoa(width), p.Role())
		}
		f, err := bitfield.I(p.IntVal, width)
		if err != nil {
			return bitfield.Value{}, err
		}
		return bitfield.Value{F: f}, nil
	}
	if !ok || mode != wantMode || size != width {
		return bitfield.Value{}, errors.Errorf("operand %v: expected reference tagged %q, got %q", p, wantMode+itoa(width), p.Role())
	}
	r := bitfield.Ref{Label: p.RefLabel, Mode: mode, Size: size}
	if p.HasSlice {
		r.Hi, r.Lo, r.HasBounds = uint(p.RefHi), uint(p.RefLo), true
	}
	r, err := bitfield.DefaultSlice(r, defHi, defLo)
	if err != nil {
		return bitfield.Value{}, err
	}
	return bitfield.Value{Symbolic: true, R: r}, nil
}

func itoa(w uint) string { return strconv.Itoa(int(w)) }

func sliceValue(v bitfield.Value, hi, lo uint) (bitfield.Value, error) {
	return bitfield.SliceOrRef(v, hi, lo)
}

func packU(ops []ilfile.Part) ([]ilfile.Part, error) {
	if len(ops) != 2 {
		return nil, errors.Errorf("lui/auipc expects 2 operands, got %d", len(ops))
	}
	rd, err := untagU(ops[0], "rd", 5)
	if err != nil {
		return nil, err
	}
	imm, err := immediate(ops[1], "imm", 20, 31, 12)
	if err != nil {
		return nil, err
	}
	return []ilfile.Part{fieldPart(rd), valuePart(imm)}, nil
}

func packI(ops []ilfile.Part) ([]ilfile.Part, error) {
	if len(ops) != 4 {
		return nil, errors.Errorf("I-type expects 4 operands, got %d", len(ops))
	}
	sub, err := untagU(ops[0], "subop", 3)
	if err != nil {
		return nil, err
	}
	rd, err := untagU(ops[1], "rd", 5)
	if err != nil {
		return nil, err
	}
	rs, err := untagU(ops[2], "rs", 5)
	if err != nil {
		return nil, err
	}
	imm, err := immediate(ops[3], "imm", 12, 11, 0)
	if err != nil {
		return nil, err
	}
	return []ilfile.Part{fieldPart(rd), fieldPart(sub), fieldPart(rs), valuePart(imm)}, nil
}

func packS(ops []ilfile.Part) ([]ilfile.Part, error) {
	if len(ops) != 4 {
		return nil, errors.Errorf("store expects 4 operands, got %d", len(ops))
	}
	sub, err := untagU(ops[0], "subop", 3)
	if err != nil {
		return nil, err
	}
	rs1, err := untagU(ops[1], "rs", 5)
	if err != nil {
		return nil, err
	}
	rs2, err := untagU(ops[2], "rs", 5)
	if err != nil {
		return nil, err
	}
	imm, err := immediate(ops[3], "off", 12, 11, 0)
	if err != nil {
		return nil, err
	}
	lo, err := sliceValue(imm, 4, 0)
	if err != nil {
		return nil, err
	}
	hi, err := sliceValue(imm, 11, 5)
	if err != nil {
		return nil, err
	}
	return []ilfile.Part{valuePart(lo), fieldPart(sub), fieldPart(rs1), fieldPart(rs2), valuePart(hi)}, nil
}

func packJ(ops []ilfile.Part) ([]ilfile.Part, error) {
	if len(ops) != 2 {
		return nil, errors.Errorf("jal expects 2 operands, got %d", len(ops))
	}
	rd, err := untagU(ops[0], "rd", 5)
	if err != nil {
		return nil, err
	}
	imm, err := immediate(ops[1], "off", 20, 20, 1)
	if err != nil {
		return nil, err
	}
	lo, err := sliceValue(imm, 9, 0)
	if err != nil {
		return nil, err
	}
	b11, err := sliceValue(imm, 10, 10)
	if err != nil {
		return nil, err
	}
	hi, err := sliceValue(imm, 18, 11)
	if err != nil {
		return nil, err
	}
	b20, err := sliceValue(imm, 19, 19)
	if err != nil {
		return nil, err
	}
	return []ilfile.Part{fieldPart(rd), valuePart(hi), valuePart(b11), valuePart(lo), valuePart(b20)}, nil
}

func packB(ops []ilfile.Part) ([]ilfile.Part, error) {
	if len(ops) != 4 {
		return nil, errors.Errorf("branch expects 4 operands, got %d", len(ops))
	}
	sub, err := untagU(ops[0], "subop", 3)
	if err != nil {
		return nil, err
	}
	rs1, err := untagU(ops[1], "rs", 5)
	if err != nil {
		return nil, err
	}
	rs2, err := untagU(ops[2], "rs", 5)
	if err != nil {
		return nil, err
	}
	imm, err := immediate(ops[3], "off", 12, 12, 1)
	if err != nil {
		return nil, err
	}
	lo, err := sliceValue(imm, 3, 0)
	if err != nil {
		return nil, err
	}
	md, err := sliceValue(imm, 9, 4)
	if err != nil {
		return nil, err
	}
	b11, err := sliceValue(imm, 10, 10)
	if err != nil {
		return nil, err
	}
	b12, err := sliceValue(imm, 11, 11)
	if err != nil {
		return nil, err
	}
	return []ilfile.Part{valuePart(b11), valuePart(lo), fieldPart(sub), fieldPart(rs1), fieldPart(rs2), valuePart(md), valuePart(b12)}, nil
}
