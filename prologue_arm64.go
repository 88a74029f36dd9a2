package selfcrypt

// DefaultSignature is MOVD 16(R28), R16: the load of the goroutine stack
// bound at the entry of every Go function that can grow its stack.
var DefaultSignature = []byte{0x90, 0x0b, 0x40, 0xf9}
