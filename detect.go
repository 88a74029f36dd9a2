package selfcrypt

import "bytes"

// State says whether a region holds live instructions or ciphertext.
type State int

const (
	// Encrypted means the region does not start with the prologue
	// signature and must not be executed.
	Encrypted State = iota
	// Decrypted means the region starts with the prologue signature.
	Decrypted
)

func (s State) String() string {
	switch s {
	case Decrypted:
		return "decrypted"
	case Encrypted:
		return "encrypted"
	}
	return "unknown"
}

// Detector classifies regions by comparing their first bytes with a fixed
// instruction sequence every function starts with.
//
// Ciphertext that happens to start with the signature is reported as
// decrypted. With single byte XOR keys that only happens for a zero key,
// which the Protector refuses.
type Detector struct {
	Signature []byte
}

// DefaultDetector uses the stack-check prologue the Go compiler emits for
// this architecture.
var DefaultDetector = Detector{Signature: DefaultSignature}

// Detect returns the state of buf.
func (d Detector) Detect(buf []byte) State {
	if len(d.Signature) == 0 || len(buf) < len(d.Signature) {
		return Encrypted
	}
	if bytes.Equal(buf[:len(d.Signature)], d.Signature) {
		return Decrypted
	}
	return Encrypted
}

// State returns the current state of r.
func (d Detector) State(r *Region) State {
	return d.Detect(r.Bytes())
}
