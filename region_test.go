//go:build linux || freebsd

package selfcrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPageBase(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uintptr(0x1000), PageBase(0x1234, 0x1000))
	assert.Equal(uintptr(0x1000), PageBase(0x1000, 0x1000))
	assert.Equal(uintptr(0x0), PageBase(0xfff, 0x1000))
	assert.Equal(uintptr(0x10000), PageBase(0x1ffff, 0x10000))
}

func TestNewRegion(t *testing.T) {
	assert := assert.New(t)

	r := mmapRegion(t, 16, scenarioCode)
	assert.Equal(5, r.Len())
	assert.Equal(16, r.OffsetWithinPage())
	assert.Equal(r.Addr()-16, r.PageBase())
	assert.Equal(scenarioCode, r.Bytes())
}

func TestNewRegion_Length(t *testing.T) {
	_, err := NewRegion(nil)
	assert.Error(t, err)

	_, err = NewRegion(make([]byte, unix.Getpagesize()))
	assert.Error(t, err)

	_, err = NewRegion(make([]byte, unix.Getpagesize()-1))
	assert.NoError(t, err)
}

func TestBetween(t *testing.T) {
	r := mmapRegion(t, 0, scenarioCode)

	t.Run("valid", func(t *testing.T) {
		b, err := Between(r.Addr(), r.Addr()+uintptr(r.Len()))
		require.NoError(t, err)
		assert.Equal(t, scenarioCode, b.Bytes())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := Between(r.Addr()+4, r.Addr())
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Between(r.Addr(), r.Addr())
		assert.Error(t, err)
	})

	t.Run("longer than a page", func(t *testing.T) {
		_, err := Between(r.Addr(), r.Addr()+uintptr(unix.Getpagesize()))
		assert.Error(t, err)
	})
}

func TestLocate(t *testing.T) {
	assert := assert.New(t)

	r, err := Locate(protectedForTest)
	require.NoError(t, err)

	assert.Greater(r.Len(), len(DefaultSignature))
	assert.Less(r.Len(), unix.Getpagesize())
	assert.Less(r.OffsetWithinPage(), unix.Getpagesize())

	// The region has to be the code that runs.
	assert.Equal("protected 3", protectedForTest(3))
}

func TestLocate_NotAFunction(t *testing.T) {
	t.Run("not a function", func(t *testing.T) {
		_, err := Locate(42)
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "not a function")
		}
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Locate(nil)
		assert.Error(t, err)
	})

	t.Run("nil function", func(t *testing.T) {
		var fn func()
		_, err := Locate(fn)
		assert.Error(t, err)
	})
}

func TestSnapshot(t *testing.T) {
	r := mmapRegion(t, 0, scenarioCode)
	snap := r.Snapshot()
	snap[0] = 0
	assert.Equal(t, byte(0x55), r.Bytes()[0])
}

func TestMakeWritable(t *testing.T) {
	r := mmapRegion(t, 32, scenarioCode)

	restore, err := makeWritable(r)
	require.NoError(t, err)

	r.Transform(Key{0x01})
	assert.Equal(t, []byte{0x54, 0x49, 0x88, 0xe4, 0x91}, r.Bytes())

	require.NoError(t, restore())
	assert.Equal(t, []byte{0x54, 0x49, 0x88, 0xe4, 0x91}, r.Bytes())
}
