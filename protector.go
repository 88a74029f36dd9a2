package selfcrypt

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type state int

const (
	stateIdle state = iota
	stateEncryptRequested
	stateDecryptRequested
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateEncryptRequested:
		return "encrypt-requested"
	case stateDecryptRequested:
		return "decrypt-requested"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Protector drives one encrypt or decrypt of a region. It runs once: after
// Encrypt or Decrypt returns the Protector is done or failed and every
// further call returns ErrUsed.
type Protector struct {
	region   *Region
	detector Detector
	log      *logrus.Entry

	exe              string
	offset           int64
	hasOffset        bool
	persistDecrypted bool

	state state
}

// New returns a Protector for r.
func New(r *Region, opts ...Option) *Protector {
	p := &Protector{
		region:   r,
		detector: DefaultDetector,
		log:      logrus.WithField("component", "selfcrypt"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports whether the region currently holds live code.
func (p *Protector) State() State {
	return p.detector.State(p.region)
}

// Encrypt encrypts the region in memory and writes it to the executable.
// It fails without touching anything if the region is already encrypted.
func (p *Protector) Encrypt(key Key) (err error) {
	if err := p.begin(stateEncryptRequested); err != nil {
		return err
	}
	defer func() { p.finish(err) }()

	if p.State() != Decrypted {
		return ErrAlreadyEncrypted
	}

	if err := p.transform(key); err != nil {
		return err
	}

	if p.State() == Decrypted {
		// The key left the signature bytes alone. Put the region back.
		if err := p.transform(key); err != nil {
			return err
		}
		return ErrWeakKey
	}

	return p.write()
}

// Decrypt decrypts the region in memory. It fails without touching anything
// if the region is not encrypted, and fails with ErrBadKey if the region is
// still encrypted afterwards. On success the region can be executed.
func (p *Protector) Decrypt(key Key) (err error) {
	if err := p.begin(stateDecryptRequested); err != nil {
		return err
	}
	defer func() { p.finish(err) }()

	if p.State() != Encrypted {
		return ErrNotEncrypted
	}

	if err := p.transform(key); err != nil {
		return err
	}

	if p.State() != Decrypted {
		return ErrBadKey
	}

	if p.persistDecrypted {
		return p.write()
	}
	return nil
}

func (p *Protector) begin(next state) error {
	if p.state != stateIdle {
		return ErrUsed
	}
	p.setState(next)
	return nil
}

func (p *Protector) finish(err error) {
	if err != nil {
		p.setState(stateFailed)
		return
	}
	p.setState(stateDone)
}

func (p *Protector) setState(next state) {
	p.log.WithFields(logrus.Fields{
		"from": p.state,
		"to":   next,
	}).Debug("state change")
	p.state = next
}

// transform unlocks the region's pages, applies the cipher and locks the
// pages again.
func (p *Protector) transform(key Key) error {
	restore, err := makeWritable(p.region)
	if err != nil {
		return err
	}
	p.region.Transform(key)
	return restore()
}

// write persists the current region bytes to the executable.
func (p *Protector) write() error {
	exe := p.exe
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return systemError("locate executable", err)
		}
	}

	off := p.offset
	if !p.hasOffset {
		var err error
		off, err = ExecutableOffset(p.region, exe)
		if err != nil {
			return errors.Wrap(err, "locating region in executable")
		}
	}

	p.log.WithFields(logrus.Fields{
		"path":   exe,
		"offset": off,
		"len":    p.region.Len(),
	}).Debug("rewriting executable")

	return Rewrite(exe, off, p.region.Snapshot())
}
