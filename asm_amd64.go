package selfcrypt

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// disassemble lists the instructions in code, one per line, starting at
// baseAddr. Bytes that don't decode are shown as "?" one at a time, which
// is what ciphertext looks like.
func disassemble(code []byte, baseAddr uintptr) string {
	var buf bytes.Buffer

	for i := 0; i < len(code); {
		size := 1
		asm := "?"
		// A truncated prefix decodes without an error but with no opcode.
		if instruction, err := x86asm.Decode(code[i:], 64); err == nil && instruction.Op != 0 {
			size = instruction.Len
			asm = x86asm.GoSyntax(instruction, uint64(baseAddr)+uint64(i), nil)
		}
		fmt.Fprintf(&buf, "0x%08x\t%-20s\t%s\n", baseAddr+uintptr(i), hex.EncodeToString(code[i:i+size]), asm)

		i += size
	}

	return buf.String()
}
