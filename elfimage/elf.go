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

package elfimage

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/rv32x/rv32pipe/ilfile"
	"github.com/rv32x/rv32pipe/internal/rvio"
)

// Segment is a named, addressed memory region collected from the IL
// stream, ready to be laid out as an ELF program segment.
type Segment struct {
	Name  string
	Addr  uint32
	Bytes []byte
}

const (
	ptLoad = 1

	pfExec  = 1
	pfWrite = 2
	pfRead  = 4

	pageAlign = 0x1000
)

type elfIdent struct {
	Magic      [4]byte
	Class      uint8
	Data       uint8
	Version    uint8
	OSABI      uint8
	ABIVersion uint8
	Pad        [7]byte
}

type elfHeader struct {
	Ident     elfIdent
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

type programHeader struct {
	Type   uint32
	Offset uint32
	Vaddr  uint32
	Paddr  uint32
	Filesz uint32
	Memsz  uint32
	Flags  uint32
	Align  uint32
}

// Collect walks a byte-tagged line stream and groups it into ordered
// Segments. A segment header starts a new Segment; an instruction line
// appends its byte parts to the segment currently in effect. Any
// instruction encountered before the first segment header, or any line
// that is neither a segment header nor an instruction, is a structural
// error — the stream must already have had its labels and empty lines
// stripped by survey.
func Collect(lines []ilfile.Line) ([]Segment, error) {
	var segs []Segment
	for _, l := range lines {
		switch l.Kind {
		case ilfile.Segment:
			segs = append(segs, Segment{Name: l.Seg, Addr: uint32(l.SegAddr)})
		case ilfile.Instr:
			if len(segs) == 0 {
				return nil, errors.Errorf("instruction outside any segment: %q", l.Raw)
			}
			cur := &segs[len(segs)-1]
			for _, p := range l.Parts {
				if !p.IsInt || p.IntVal < 0 || p.IntVal > 0xff {
					return nil, errors.Errorf("non-byte part %v reaching emit stage", p)
				}
				cur.Bytes = append(cur.Bytes, byte(p.IntVal))
			}
		default:
			return nil, errors.Errorf("unexpected line reaching emit stage: %q", l.Raw)
		}
	}
	return segs, nil
}

// Write emits segs as an ELF32 little-endian executable to w. The
// segment named "code" becomes the entry point; its absence is a
// structural error, as is a segment whose virtual address can't be
// reconciled with a page-aligned file offset.
func Write(w io.Writer, segs []Segment) error {
	if len(segs) == 0 {
		return errors.New("no segments to emit")
	}
	var entry uint32
	haveEntry := false
	for _, s := range segs {
		if s.Name == "code" {
			entry = s.Addr
			haveEntry = true
		}
	}
	if !haveEntry {
		return errors.New(`missing "code" segment`)
	}

	phoff := uint32(0x34)
	phEnd := phoff + uint32(len(segs))*0x20

	offsets := make([]uint32, len(segs))
	cur := phEnd
	for i, s := range segs {
		off := alignUp(cur, pageAlign)
		if off%pageAlign != s.Addr%pageAlign {
			return errors.Errorf("segment %q: file offset %#x cannot be aligned with vaddr %#x", s.Name, off, s.Addr)
		}
		offsets[i] = off
		cur = off + uint32(len(s.Bytes))
	}

	ew := rvio.NewErrWriter(w)

	hdr := elfHeader{
		Ident:     elfIdent{Magic: [4]byte{0x7f, 'E', 'L', 'F'}, Class: 1, Data: 1, Version: 1},
		Type:      2,
		Machine:   0xf3,
		Version:   1,
		Entry:     entry,
		Phoff:     phoff,
		Shoff:     0,
		Flags:     4,
		Ehsize:    0x34,
		Phentsize: 0x20,
		Phnum:     uint16(len(segs)),
		Shentsize: 0x28,
		Shnum:     0,
		Shstrndx:  0,
	}
	if err := binary.Write(ew, binary.LittleEndian, hdr); err != nil {
		return errors.Wrap(err, "writing ELF header")
	}

	for i, s := range segs {
		flags := uint32(pfRead | pfWrite)
		if s.Name == "code" {
			flags = pfRead | pfExec
		}
		ph := programHeader{
			Type:   ptLoad,
			Offset: offsets[i],
			Vaddr:  s.Addr,
			Paddr:  s.Addr,
			Filesz: uint32(len(s.Bytes)),
			Memsz:  uint32(len(s.Bytes)),
			Flags:  flags,
			Align:  pageAlign,
		}
		if err := binary.Write(ew, binary.LittleEndian, ph); err != nil {
			return errors.Wrapf(err, "writing program header for segment %q", s.Name)
		}
	}

	cur = phEnd
	for i, s := range segs {
		if pad := offsets[i] - cur; pad > 0 {
			if _, err := ew.Write(make([]byte, pad)); err != nil {
				return errors.Wrap(err, "padding segment data")
			}
		}
		if _, err := ew.Write(s.Bytes); err != nil {
			return errors.Wrapf(err, "writing segment %q", s.Name)
		}
		cur = offsets[i] + uint32(len(s.Bytes))
	}
	return ew.Err
}

func alignUp(x, align uint32) uint32 {
	if x%align == 0 {
		return x
	}
	return x + (align - x%align)
}
