package selfcrypt

import (
	"fmt"
	"io"
)

// Dump writes a listing of r to w: its length and address, the raw bytes,
// the state d reports for it and a disassembly.
func Dump(w io.Writer, r *Region, d Detector) error {
	code := r.Snapshot()

	if _, err := fmt.Fprintf(w, "num bytes: %d\naddress: %#x (page %#x + %#x)\nstate: %s\n",
		len(code), r.Addr(), r.PageBase(), r.OffsetWithinPage(), d.Detect(code)); err != nil {
		return err
	}

	for i, b := range code {
		sep := " "
		if i%16 == 15 || i == len(code)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "%02x%s", b, sep); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, disassemble(code, r.Addr()))
	return err
}
