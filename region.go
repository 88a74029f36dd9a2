package selfcrypt

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// Region is a range of bytes that is encrypted and decrypted in place.
// Normally it is the machine code of a single function in the text segment.
type Region struct {
	code []byte
}

// Locate returns the region holding the machine code of fn. The region
// runs from fn's entry point to the entry of the function the linker placed
// after it.
//
// fn must not be inlined or the region will not be what gets executed:
//
//	//go:noinline
//	func protected() {
//		...
//	}
func Locate(fn any) (*Region, error) {
	fnv := reflect.ValueOf(fn)
	if fnv.Kind() != reflect.Func {
		return nil, errors.Errorf("not a function, kind: %v", fnv.Kind())
	}
	if fnv.IsNil() {
		return nil, errors.New("nil function")
	}

	entry := fnv.Pointer()
	length, err := funcLength(entry)
	if err != nil {
		return nil, err
	}

	return Between(entry, entry+uintptr(length))
}

// Between returns the region [start, end). The addresses usually come from
// marker functions placed around the protected code.
func Between(start, end uintptr) (*Region, error) {
	if end <= start {
		return nil, errors.Errorf("region end %#x is not after start %#x", end, start)
	}
	if err := checkLength(int(end - start)); err != nil {
		return nil, err
	}

	return &Region{
		code: unsafe.Slice((*byte)(unsafe.Pointer(start)), int(end-start)),
	}, nil
}

// NewRegion wraps an existing buffer. The buffer must already be mapped
// somewhere it's safe to change page protections, such as an anonymous
// mapping.
func NewRegion(buf []byte) (*Region, error) {
	if err := checkLength(len(buf)); err != nil {
		return nil, err
	}
	return &Region{code: buf}, nil
}

func checkLength(n int) error {
	if n <= 0 {
		return errors.New("empty region")
	}
	if ps := pageSize(); n >= ps {
		return errors.Errorf("region of %d bytes does not fit in a %d byte page", n, ps)
	}
	return nil
}

// Bytes returns the live region. Writes go straight to the underlying
// memory and will fault unless the page is writable.
func (r *Region) Bytes() []byte {
	return r.code
}

// Len is end - start.
func (r *Region) Len() int {
	return len(r.code)
}

// Addr returns the start address.
func (r *Region) Addr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.code)))
}

// PageBase returns the address of the page containing the start of the
// region.
func (r *Region) PageBase() uintptr {
	return PageBase(r.Addr(), pageSize())
}

// OffsetWithinPage returns how far into its page the region starts.
func (r *Region) OffsetWithinPage() int {
	return int(r.Addr() - r.PageBase())
}

// Snapshot returns a copy of the current region bytes.
func (r *Region) Snapshot() []byte {
	buf := make([]byte, len(r.code))
	copy(buf, r.code)
	return buf
}

// Transform applies the cipher to the region in place and flushes the
// instruction cache for it. The page must already be writable.
func (r *Region) Transform(key Key) {
	Apply(r.code, key)
	cacheflush(r.code)
}

// PageBase rounds addr down to a multiple of pageSize, which must be a
// power of two.
func PageBase(addr uintptr, pageSize int) uintptr {
	return addr &^ (uintptr(pageSize) - 1)
}
