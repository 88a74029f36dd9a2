//go:build linux || freebsd

package selfcrypt

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	mprotectRX  = unix.PROT_READ | unix.PROT_EXEC
	mprotectRWX = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
)

func pageSize() int {
	return unix.Getpagesize()
}

// mprotect changes the protection of every page buf touches.
func mprotect(buf []byte, flags int) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	size := pageSize()

	pageStart := PageBase(addr, size)

	// Round up to cover complete pages. A region is shorter than a page but
	// the linker may still have put it across a page boundary.
	regionSize := (int(addr-pageStart) + len(buf) + size - 1) &^ (size - 1)

	pages := unsafe.Slice((*byte)(unsafe.Pointer(pageStart)), regionSize)
	return unix.Mprotect(pages, flags)
}

// makeWritable makes the region's pages writable while keeping them
// executable. The returned function puts the pages back to read/execute.
func makeWritable(r *Region) (restore func() error, err error) {
	if err := mprotect(r.code, mprotectRWX); err != nil {
		return nil, systemError("mprotect", err)
	}
	return func() error {
		if err := mprotect(r.code, mprotectRX); err != nil {
			return systemError("mprotect", err)
		}
		return nil
	}, nil
}
