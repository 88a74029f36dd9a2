//go:build linux || freebsd

package selfcrypt

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// scenarioCode starts with push rbp; mov rbp, rsp.
var (
	scenarioSignature = []byte{0x55, 0x48, 0x89, 0xe5}
	scenarioCode      = []byte{0x55, 0x48, 0x89, 0xe5, 0x90}
)

// mmapRegion copies code into an anonymous page and returns a region over
// it. The page is private to the test so its protection can be changed
// freely.
func mmapRegion(t *testing.T, offset int, code []byte) *Region {
	t.Helper()

	page, err := unix.Mmap(-1, 0, unix.Getpagesize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Munmap(page) })

	copy(page[offset:], code)
	r, err := NewRegion(page[offset : offset+len(code)])
	require.NoError(t, err)
	return r
}

// writeImage writes a fake executable of size bytes with a recognizable
// pattern and returns its path.
func writeImage(t *testing.T, size int, mode os.FileMode) string {
	t.Helper()

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i * 7)
	}

	path := filepath.Join(t.TempDir(), "prog")
	require.NoError(t, os.WriteFile(path, buf, 0600))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

//go:noinline
func protectedForTest(n int) string {
	return fmt.Sprintf("protected %d", n)
}
