package selfcrypt

import (
	_ "unsafe"

	"github.com/pkg/errors"
)

type funcInfo struct {
	*_func
	datap *moduledata
}

// _func mirrors runtime._func. Only the entry offset is read here but the
// layout has to match.
type _func struct {
	entryOff uint32 // start pc, as offset from moduledata.text
	nameOff  int32

	args        int32
	deferreturn uint32

	pcsp      uint32
	pcfile    uint32
	pcln      uint32
	npcdata   uint32
	cuOffset  uint32
	startLine int32
	funcID    uint8
	flag      uint8
	_         [1]byte
	nfuncdata uint8
}

// moduledata is the leading part of runtime.moduledata, which is written
// by the linker. Any field added before text or ftab upstream has to be
// added here as well.
type moduledata struct {
	pcHeader     uintptr
	funcnametab  []byte
	cutab        []uint32
	filetab      []byte
	pctab        []byte
	pclntable    []byte
	ftab         []functab
	findfunctab  uintptr
	minpc, maxpc uintptr

	text, etext uintptr

	// Struct continues, omitting unused fields.
}

type functab struct {
	entryoff uint32 // relative to runtime.text
	funcoff  uint32
}

//go:linkname findfunc runtime.findfunc
func findfunc(pc uintptr) funcInfo

// textStart returns the runtime address of the start of the text segment
// of the module containing pc, or 0 if pc is not code.
func textStart(pc uintptr) uintptr {
	info := findfunc(pc)
	if info._func == nil || info.datap == nil {
		return 0
	}
	return info.datap.text
}

// funcLength returns the distance from entry to the next function entry in
// the same module. This includes the INT3 or zero padding the linker puts
// between functions.
func funcLength(entry uintptr) (int, error) {
	info := findfunc(entry)
	if info._func == nil || info.datap == nil {
		return 0, errors.Errorf("no function at %#x", entry)
	}

	funcOffset := uint32(entry - info.datap.text)
	length := uint32(info.datap.etext - entry)

	for _, ft := range info.datap.ftab {
		if ft.entryoff <= funcOffset {
			continue
		}
		if testLength := ft.entryoff - funcOffset; testLength < length {
			length = testLength
		}
	}

	return int(length), nil
}
