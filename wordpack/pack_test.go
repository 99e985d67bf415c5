package wordpack_test

import (
	"testing"

	"github.com/rv32x/rv32pipe/format"
	"github.com/rv32x/rv32pipe/ilfile"
	"github.com/rv32x/rv32pipe/wordpack"
)

func parseAll(t *testing.T, lines ...string) []ilfile.Line {
	t.Helper()
	out := make([]ilfile.Line, len(lines))
	for i, s := range lines {
		l, err := ilfile.Parse(s)
		if err != nil {
			t.Fatalf("parsing %q: %v", s, err)
		}
		out[i] = l
	}
	return out
}

func packPipeline(t *testing.T, line string) string {
	t.Helper()
	in := parseAll(t, "== code 0", line)
	fmted, err := format.Run(in)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := wordpack.Run(fmted)
	if err != nil {
		t.Fatal(err)
	}
	return packed[1].String()
}

func TestPackLui(t *testing.T) {
	if got, want := packPipeline(t, "37/lui 5/rd/t0 0x10010/imm20"), "b7 02 01 10"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPackOpi(t *testing.T) {
	if got, want := packPipeline(t, "13/opi 0/subop/add 6/rd/t1 0/rs/x0 48/imm12"), "13 03 80 04"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPackStore(t *testing.T) {
	if got, want := packPipeline(t, "23/store 2/subop/word 5/rs/t0 6/rs/t1 0/off12"), "23 a0 62 00"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPackSegmentHeaderPassesThrough(t *testing.T) {
	in := parseAll(t, "== code 0x80000000")
	out, err := wordpack.Run(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := out[0].String(); got != "== code 0x80000000" {
		t.Errorf("got %q", got)
	}
}

func TestPackUnresolvedReference(t *testing.T) {
	in := parseAll(t, "== code 0", "37/lui 5/rd/t0 pos/imm20")
	fmted, err := format.Run(in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wordpack.Run(fmted); err == nil {
		t.Error("expected error packing an unresolved symbolic reference")
	}
}
