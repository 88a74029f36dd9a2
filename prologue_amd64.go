package selfcrypt

// DefaultSignature is CMPQ SP, 16(R14): the stack bound check at the entry
// of every Go function that can grow its stack.
var DefaultSignature = []byte{0x49, 0x3b, 0x66, 0x10}
