package selfcrypt

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxKeyWidth is the widest key accepted, in bytes.
const maxKeyWidth = 8

// Key is the XOR key. It repeats over the region, so byte i of the region
// is combined with Key[i%len(Key)].
type Key []byte

// ParseKey parses a key of the form 0x followed by hex digits. The key is
// an unsigned value of at most 64 bits, stored big-endian without leading
// zero bytes, so "0x1", "0x01" and "0x0001" are all the single byte 0x01
// and "0x0102" is two bytes.
func ParseKey(s string) (Key, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return nil, inputErrorf("key %q must start with 0x", s)
	}
	if digits == "" {
		return nil, inputErrorf("key %q has no hex digits", s)
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, inputErrorf("key %q is longer than %d bytes", s, maxKeyWidth)
		}
		return nil, inputErrorf("key %q is not hexadecimal", s)
	}

	var buf [maxKeyWidth]byte
	binary.BigEndian.PutUint64(buf[:], v)

	// Zero is kept as a single byte. Encrypt refuses it.
	i := 0
	for i < maxKeyWidth-1 && buf[i] == 0 {
		i++
	}
	return Key(buf[i:]), nil
}

// String formats the key the way ParseKey accepts it.
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k)
}

// Apply XORs buf with the repeating key in place. Applying the same key
// twice restores the original contents.
func Apply(buf []byte, key Key) {
	if len(key) == 0 {
		return
	}
	for i := range buf {
		buf[i] ^= key[i%len(key)]
	}
}
