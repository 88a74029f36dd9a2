package selfcrypt

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyEncrypted is returned by Encrypt when the region is
	// already ciphertext.
	ErrAlreadyEncrypted = stateError("already encrypted")
	// ErrNotEncrypted is returned by Decrypt when the region holds live
	// code.
	ErrNotEncrypted = stateError("needs to be encrypted first")
	// ErrBadKey is returned by Decrypt when the region is still ciphertext
	// after applying the key.
	ErrBadKey = stateError("bad key")
	// ErrWeakKey is returned by Encrypt when the key leaves the prologue
	// signature intact, so the result could not be told apart from live
	// code.
	ErrWeakKey = stateError("key does not change the function prologue")
	// ErrUsed is returned when a Protector is driven a second time.
	ErrUsed = stateError("protector has already run")
)

// InputError reports a malformed argument. Nothing has been mutated.
type InputError struct {
	msg string
}

func (e *InputError) Error() string {
	return e.msg
}

func inputErrorf(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// StateError reports an operation that is not allowed in the region's
// current state.
type StateError struct {
	msg string
}

func (e *StateError) Error() string {
	return e.msg
}

func stateError(msg string) *StateError {
	return &StateError{msg: msg}
}

// SystemError wraps a failed system call or file operation.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

func systemError(op string, err error) error {
	return &SystemError{Op: op, Err: err}
}

// IsInputError reports whether err was caused by a malformed argument.
func IsInputError(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

// IsStateError reports whether err was caused by the region being in the
// wrong state.
func IsStateError(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsSystemError reports whether err came from the operating system.
func IsSystemError(err error) bool {
	var e *SystemError
	return errors.As(err, &e)
}
