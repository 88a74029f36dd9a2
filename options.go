package selfcrypt

import "github.com/sirupsen/logrus"

// Option configures a Protector.
type Option func(*Protector)

// WithExecutable sets the file the region is persisted to. The default is
// the running executable.
func WithExecutable(path string) Option {
	return func(p *Protector) {
		p.exe = path
	}
}

// WithFileOffset sets where in the executable the region is stored,
// bypassing the ELF lookup. Use it for regions outside the text segment.
func WithFileOffset(off int64) Option {
	return func(p *Protector) {
		p.offset = off
		p.hasOffset = true
	}
}

// WithSignature replaces the prologue signature used to tell live code from
// ciphertext.
func WithSignature(sig []byte) Option {
	return func(p *Protector) {
		p.detector = Detector{Signature: sig}
	}
}

// WithPersistDecrypted makes Decrypt write the decrypted region back to the
// executable as well. By default only Encrypt touches the file.
func WithPersistDecrypted(persist bool) Option {
	return func(p *Protector) {
		p.persistDecrypted = persist
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(p *Protector) {
		p.log = log
	}
}
