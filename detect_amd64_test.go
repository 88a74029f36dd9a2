//go:build linux || freebsd

package selfcrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func TestDefaultSignature_DecodesAsStackCheck(t *testing.T) {
	r, err := Locate(protectedForTest)
	require.NoError(t, err)

	inst, err := x86asm.Decode(r.Bytes(), 64)
	require.NoError(t, err)
	assert.Equal(t, x86asm.CMP, inst.Op)
	assert.Equal(t, len(DefaultSignature), inst.Len)
	assert.Equal(t, x86asm.RSP, inst.Args[0])
}
