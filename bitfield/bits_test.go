package bitfield_test

import (
	"testing"

	"github.com/rv32x/rv32pipe/bitfield"
)

func TestU(t *testing.T) {
	data := []struct {
		n    int64
		w    uint
		fail bool
	}{
		{0, 8, false},
		{255, 8, false},
		{256, 8, true},
		{-1, 8, true},
	}
	for _, d := range data {
		f, err := bitfield.U(d.n, d.w)
		if d.fail {
			if err == nil {
				t.Errorf("U(%d, %d): expected error, got %v", d.n, d.w, f)
			}
			continue
		}
		if err != nil {
			t.Errorf("U(%d, %d): unexpected error: %v", d.n, d.w, err)
			continue
		}
		if f.Value != uint64(d.n) || f.Width != d.w {
			t.Errorf("U(%d, %d) = %+v, want value=%d width=%d", d.n, d.w, f, d.n, d.w)
		}
	}
}

func TestI(t *testing.T) {
	data := []struct {
		n    int64
		w    uint
		want uint64
		fail bool
	}{
		{127, 8, 127, false},
		{-128, 8, 128, false},
		{128, 8, 0, true},
		{-129, 8, 0, true},
		{-1, 8, 255, false},
	}
	for _, d := range data {
		f, err := bitfield.I(d.n, d.w)
		if d.fail {
			if err == nil {
				t.Errorf("I(%d, %d): expected error, got %v", d.n, d.w, f)
			}
			continue
		}
		if err != nil {
			t.Errorf("I(%d, %d): unexpected error: %v", d.n, d.w, err)
			continue
		}
		if f.Value != d.want {
			t.Errorf("I(%d, %d) = %d, want %d", d.n, d.w, f.Value, d.want)
		}
	}
}

func TestConcat(t *testing.T) {
	a, _ := bitfield.U(0x7, 3)
	b, _ := bitfield.U(0x5, 5)
	got := bitfield.Concat(a, b)
	want := Field{Value: 0x7 | 0x5<<3, Width: 8}
	if got != want {
		t.Errorf("Concat(%v, %v) = %+v, want %+v", a, b, got, want)
	}
}

type Field = bitfield.Field

func TestSlice(t *testing.T) {
	x, _ := bitfield.U(0xABCD, 16)
	got, err := bitfield.Slice(x, 15, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 0xAB || got.Width != 8 {
		t.Errorf("Slice high byte = %+v, want value=0xAB width=8", got)
	}
	got, err = bitfield.Slice(x, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 0xCD || got.Width != 8 {
		t.Errorf("Slice low byte = %+v, want value=0xCD width=8", got)
	}
	if _, err := bitfield.Slice(x, 16, 0); err == nil {
		t.Error("Slice with hi >= width: expected error")
	}
	if _, err := bitfield.Slice(x, 4, 8); err == nil {
		t.Error("Slice with reversed range: expected error")
	}
}

func TestSliceOrRefComposition(t *testing.T) {
	r := bitfield.Ref{Label: "main", Mode: "off", Size: 20}
	r, err := bitfield.DefaultSlice(r, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	v := bitfield.Value{Symbolic: true, R: r}

	// emulate the J-type scatter: imm[19:12], imm[11], imm[10:1], imm[20]
	hi8, err := bitfield.SliceOrRef(v, 18, 11)
	if err != nil {
		t.Fatal(err)
	}
	if hi8.R.Hi != 19 || hi8.R.Lo != 12 || hi8.R.Size != 8 {
		t.Errorf("imm[19:12] sub-ref = %+v, want Hi=19 Lo=12 Size=8", hi8.R)
	}

	bit20, err := bitfield.SliceOrRef(v, 19, 19)
	if err != nil {
		t.Fatal(err)
	}
	if bit20.R.Hi != 20 || bit20.R.Lo != 20 || bit20.R.Size != 1 {
		t.Errorf("imm[20] sub-ref = %+v, want Hi=20 Lo=20 Size=1", bit20.R)
	}

	if _, err := bitfield.SliceOrRef(v, 20, 0); err == nil {
		t.Error("slice exceeding reference bounds: expected error")
	}
}
