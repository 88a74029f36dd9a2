//go:build arm64 && cgo

package selfcrypt

import "unsafe"

/*
static void cacheflush(char *start, char *end) {
	__builtin___clear_cache(start, end);
}
*/
import "C"

// cacheflush invalidates the instruction cache for buf. arm64 has separate
// instruction and data caches, so freshly decrypted code can otherwise run
// as stale ciphertext.
func cacheflush(buf []byte) {
	if len(buf) == 0 {
		return
	}
	start := unsafe.Pointer(unsafe.SliceData(buf))
	end := unsafe.Pointer(uintptr(len(buf)) + uintptr(start))
	C.cacheflush((*C.char)(start), (*C.char)(end))
}
