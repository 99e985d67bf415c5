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

package bitfield

import "github.com/pkg/errors"

// Field is a concrete, range-checked (value, width) pair. Value never
// exceeds what fits in Width bits.
type Field struct {
	Value uint64
	Width uint
}

// Ref is a bit-field whose value is not yet known: a slice of a label's
// eventual 32-bit address. Mode selects how the address will be
// interpreted once resolved ("imm" for an absolute value, "off" for a
// PC-relative one); Size is the field's declared width as written in the
// source (e.g. the 20 in "off20"). Hi and Lo index into the label's full
// 32-bit value and are filled in by DefaultSlice if the source left them
// implicit.
type Ref struct {
	Label     string
	Mode      string
	Size      uint
	Hi, Lo    uint
	HasBounds bool
}

// Value is either a concrete Field or an unresolved Ref.
type Value struct {
	Symbolic bool
	F        Field
	R        Ref
}

// U constructs an unsigned Field, failing if n is negative or does not fit
// in w bits.
func U(n int64, w uint) (Field, error) {
	if n < 0 {
		return Field{}, errors.Errorf("value %d is negative, expected unsigned %d-bit field", n, w)
	}
	if w >= 64 {
		return Field{Value: uint64(n), Width: w}, nil
	}
	max := int64(1) << w
	if n >= max {
		return Field{}, errors.Errorf("value %d (u%d) too large for u%d field [0;%d]", n, bitsNeeded(n), w, max-1)
	}
	return Field{Value: uint64(n), Width: w}, nil
}

// I constructs a Field from a signed value n, checking that it fits in a
// two's-complement w-bit representation and converting it to its unsigned
// bit pattern.
func I(n int64, w uint) (Field, error) {
	if w == 0 || w > 63 {
		return Field{}, errors.Errorf("invalid signed field width %d", w)
	}
	lo := -(int64(1) << (w - 1))
	hi := (int64(1) << (w - 1)) - 1
	if n < lo || n > hi {
		return Field{}, errors.Errorf("value %d (i%d) too large for i%d field [%d;%d]", n, bitsNeededSigned(n), w, lo, hi)
	}
	u := n
	if u < 0 {
		u += int64(1) << w
	}
	return U(u, w)
}

// Concat lays out parts low bit first: the first part occupies the
// low-order bits, the last part the high-order bits.
func Concat(parts ...Field) Field {
	var value uint64
	var shift uint
	for _, p := range parts {
		value |= p.Value << shift
		shift += p.Width
	}
	return Field{Value: value, Width: shift}
}

// Slice extracts the inclusive bit range [hi:lo] from f.
func Slice(f Field, hi, lo uint) (Field, error) {
	if lo > hi {
		return Field{}, errors.Errorf("reversed bit range [%d:%d]", hi, lo)
	}
	if hi >= f.Width {
		return Field{}, errors.Errorf("bit range [%d:%d] out of bounds for %d-bit field", hi, lo, f.Width)
	}
	width := hi - lo + 1
	mask := uint64(1)<<width - 1
	return Field{Value: (f.Value >> lo) & mask, Width: width}, nil
}

// SliceOrRef extracts the inclusive bit range [hi:lo] from v, whether v is
// a concrete Field or a still-unresolved Ref. Slicing a Ref composes: the
// requested range is re-expressed relative to the label's full value by
// combining it with the bounds Ref already carries.
func SliceOrRef(v Value, hi, lo uint) (Value, error) {
	if !v.Symbolic {
		f, err := Slice(v.F, hi, lo)
		if err != nil {
			return Value{}, err
		}
		return Value{F: f}, nil
	}
	if !v.R.HasBounds {
		return Value{}, errors.Errorf("reference to %q sliced before its bounds were established", v.R.Label)
	}
	width := hi - lo + 1
	newLo := v.R.Lo + lo
	newHi := newLo + width - 1
	if newHi > v.R.Hi {
		return Value{}, errors.Errorf("slice [%d:%d] out of bounds for reference %q[%d:%d]", hi, lo, v.R.Label, v.R.Hi, v.R.Lo)
	}
	r := v.R
	r.Hi, r.Lo, r.Size, r.HasBounds = newHi, newLo, width, true
	return Value{Symbolic: true, R: r}, nil
}

// DefaultSlice fills in a Ref's bit bounds with a format's default
// immediate range when the source left them implicit (a bare label with
// no explicit "[hi:lo]"). If the reference already carries explicit
// bounds, it verifies their width matches the declared Size instead of
// overwriting them.
func DefaultSlice(r Ref, defHi, defLo uint) (Ref, error) {
	if r.HasBounds {
		if r.Hi-r.Lo+1 != r.Size {
			return Ref{}, errors.Errorf("reference %q declares width %d but slice [%d:%d] has width %d", r.Label, r.Size, r.Hi, r.Lo, r.Hi-r.Lo+1)
		}
		return r, nil
	}
	r.Hi, r.Lo, r.HasBounds = defHi, defLo, true
	if r.Hi-r.Lo+1 != r.Size {
		return Ref{}, errors.Errorf("reference %q declares width %d but default slice [%d:%d] has width %d", r.Label, r.Size, r.Hi, r.Lo, r.Hi-r.Lo+1)
	}
	return r, nil
}

func bitsNeeded(n int64) uint {
	var w uint
	for n > 0 {
		n >>= 1
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

func bitsNeededSigned(n int64) uint {
	if n < 0 {
		n = ^n
	}
	return bitsNeeded(n) + 1
}
