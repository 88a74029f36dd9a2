//go:build !arm64

package selfcrypt

// amd64 keeps the instruction cache coherent with stores, so there is
// nothing to do.
func cacheflush(buf []byte) {}
