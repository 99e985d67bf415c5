package ilfile_test

import (
	"fmt"

	"github.com/rv32x/rv32pipe/ilfile"
)

// Example shows the four line kinds round-tripping through Parse and
// String unchanged, as every stage's pass-through lines do.
func Example() {
	for _, s := range []string{
		"== code 0x80000000",
		"main:",
		"37/lui 5/rd/t0 0x10010/imm20",
		"6f/jal 0/rd/x0 main[19:12]/off8",
	} {
		l, err := ilfile.Parse(s)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(l.String())
	}
	// Output:
	// == code 0x80000000
	// main:
	// 37/lui 5/rd/t0 0x10010/imm20
	// 6f/jal 0/rd/x0 main[19:12]/off8
}
