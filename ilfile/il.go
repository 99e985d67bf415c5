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

package ilfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the shape of a Line.
type Kind int

// The four line kinds the IL supports.
const (
	Empty Kind = iota
	Segment
	Label
	Instr
)

var (
	fieldSep = regexp.MustCompile(`[ \t.\n]+`)
	hexLit   = regexp.MustCompile(`(?i)^-?(0x)?[0-9a-f]+$`)
	refHead  = regexp.MustCompile(`^([^\[]+)(?:\[(\d+):(\d+)\])?$`)
	refMode  = regexp.MustCompile(`^(imm|off)(\d+)$`)
)

// Part is one "/"-separated token of an instruction line: a head, which is
// either an integer or a symbolic reference, followed by zero or more
// descriptive tags.
type Part struct {
	IsInt        bool
	IntVal       int64
	RefLabel     string
	RefHi, RefLo int
	HasSlice     bool
	Tags         []string
}

// Mode reports the reference width-mode ("imm" or "off") and declared bit
// size encoded in the part's first tag (e.g. "off12"), if any.
func (p Part) Mode() (mode string, size uint, ok bool) {
	if len(p.Tags) == 0 {
		return "", 0, false
	}
	m := refMode.FindStringSubmatch(p.Tags[0])
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], uint(n), true
}

// Role returns the first tag, used by the format stage to verify that an
// operand's declared role (e.g. "rd", "subop") matches what the
// instruction's format expects.
func (p Part) Role() string {
	if len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0]
}

// Width reports the declared bit width of a bit-field-tagged part: the
// parsed decimal tag for a concrete field, or the mode-width tag's size
// for a still-symbolic reference. It is only meaningful for parts
// produced by the Format stage or later, never for semantic-operand
// parts (where the tag names a role, not a width).
func (p Part) Width() (uint, error) {
	if p.IsInt {
		if len(p.Tags) != 1 {
			return 0, errors.Errorf("part %v: expected a single width tag", p)
		}
		n, err := strconv.Atoi(p.Tags[0])
		if err != nil || n < 0 {
			return 0, errors.Errorf("part %v: invalid width tag %q", p, p.Tags[0])
		}
		return uint(n), nil
	}
	_, size, ok := p.Mode()
	if !ok {
		return 0, errors.Errorf("part %v: missing mode/width tag", p)
	}
	return size, nil
}

func (p Part) String() string {
	var head string
	if p.IsInt {
		if p.IntVal < 0 {
			head = "-" + fmt.Sprintf("%02x", -p.IntVal)
		} else {
			head = fmt.Sprintf("%02x", p.IntVal)
		}
	} else {
		head = p.RefLabel
		if p.HasSlice {
			head += fmt.Sprintf("[%d:%d]", p.RefHi, p.RefLo)
		}
	}
	if len(p.Tags) == 0 {
		return head
	}
	return head + "/" + strings.Join(p.Tags, "/")
}

// Line is one parsed line of the intermediate language.
type Line struct {
	Kind    Kind
	Raw     string
	Comment string

	Seg     string
	SegAddr int64
	HasAddr bool

	Label string

	Parts []Part

	// Dirty is set only by a stage that rewrites Parts (format, survey,
	// wordpack). An Instr line a stage passes through untouched keeps
	// Dirty false, so String still echoes Raw instead of re-canonicalizing
	// parts the stage never looked at.
	Dirty bool
}

// Parse classifies and decodes one line of IL text.
func Parse(raw string) (Line, error) {
	code, comment := splitComment(raw)
	trimmed := strings.TrimSpace(code)

	l := Line{Raw: raw, Comment: comment}

	if trimmed == "" {
		l.Kind = Empty
		return l, nil
	}

	if strings.HasPrefix(trimmed, "==") {
		l.Kind = Segment
		fields := splitFields(strings.TrimSpace(trimmed[2:]))
		switch len(fields) {
		case 1:
			l.Seg = fields[0]
		case 2:
			l.Seg = fields[0]
			addr, err := parseInt(fields[1])
			if err != nil {
				return Line{}, errors.Wrapf(err, "invalid segment base address %q", fields[1])
			}
			l.SegAddr = addr
			l.HasAddr = true
		default:
			return Line{}, errors.Errorf("malformed segment header: %q", raw)
		}
		return l, nil
	}

	if strings.HasSuffix(trimmed, ":") {
		l.Kind = Label
		l.Label = trimmed[:len(trimmed)-1]
		return l, nil
	}

	l.Kind = Instr
	for _, tok := range splitFields(trimmed) {
		p, err := parsePart(tok)
		if err != nil {
			return Line{}, errors.Wrapf(err, "in line %q", raw)
		}
		l.Parts = append(l.Parts, p)
	}
	return l, nil
}

// String re-serializes an instruction line from its Parts once a stage
// has rewritten them (Dirty); every other line, and any Instr line a
// stage passed through untouched, echoes its original raw text.
func (l Line) String() string {
	if l.Kind != Instr || !l.Dirty {
		return l.Raw
	}
	toks := make([]string, len(l.Parts))
	for i, p := range l.Parts {
		toks[i] = p.String()
	}
	s := strings.Join(toks, " ")
	if l.Comment != "" {
		s += " # " + l.Comment
	}
	return s
}

// ReadAll parses every line of r into a Line stream, in order. It is the
// common entry point every stage binary uses to load its input.
func ReadAll(r io.Reader) ([]Line, error) {
	var out []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		l, err := Parse(sc.Text())
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading IL stream")
	}
	return out, nil
}

// WriteAll re-serializes a Line stream to w, one line per line of text.
func WriteAll(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := io.WriteString(w, l.String()+"\n"); err != nil {
			return errors.Wrap(err, "writing IL stream")
		}
	}
	return nil
}

func splitComment(raw string) (code, comment string) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i], strings.TrimSpace(raw[i+1:])
	}
	return raw, ""
}

func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	fields := fieldSep.Split(s, -1)
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parsePart(tok string) (Part, error) {
	comps := strings.Split(tok, "/")
	head := comps[0]
	tags := comps[1:]

	if hexLit.MatchString(head) {
		n, err := parseInt(head)
		if err != nil {
			return Part{}, err
		}
		return Part{IsInt: true, IntVal: n, Tags: tags}, nil
	}

	m := refHead.FindStringSubmatch(head)
	if m == nil {
		return Part{}, errors.Errorf("malformed reference %q", head)
	}
	p := Part{RefLabel: m[1], Tags: tags}
	if m[2] != "" {
		hi, err := strconv.Atoi(m[2])
		if err != nil {
			return Part{}, errors.Wrapf(err, "invalid slice bound in %q", head)
		}
		lo, err := strconv.Atoi(m[3])
		if err != nil {
			return Part{}, errors.Wrapf(err, "invalid slice bound in %q", head)
		}
		p.RefHi, p.RefLo, p.HasSlice = hi, lo, true
	}
	return p, nil
}

func parseInt(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	n, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hexadecimal literal %q", s)
	}
	if neg {
		n = -n
	}
	return n, nil
}
