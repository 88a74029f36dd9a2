package selfcrypt

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"
)

// disassemble lists the instructions in code, one per line, starting at
// baseAddr. Words that don't decode are shown as "?", as is a trailing
// partial word.
func disassemble(code []byte, baseAddr uintptr) string {
	var buf bytes.Buffer

	whole := len(code) &^ 3
	for i := 0; i < whole; i += 4 {
		asm := "?"
		if instruction, err := arm64asm.Decode(code[i:]); err == nil {
			asm = arm64asm.GoSyntax(instruction, uint64(baseAddr)+uint64(i), nil, nil)
		}
		fmt.Fprintf(&buf, "0x%08x\t%-20s\t%s\n", baseAddr+uintptr(i), hex.EncodeToString(code[i:i+4]), asm)
	}

	if whole < len(code) {
		fmt.Fprintf(&buf, "0x%08x\t%-20s\t?\n", baseAddr+uintptr(whole), hex.EncodeToString(code[whole:]))
	}

	return buf.String()
}
