package selfcrypt

import (
	"debug/elf"

	"github.com/pkg/errors"
)

// ExecutableOffset returns the offset in the ELF file at path where the
// bytes of r are stored. r must be in the text segment of the running
// program and path must be the file it was loaded from.
//
// Loadable segments are page aligned in both the file and memory, so the
// result is the file offset of r's page plus r.OffsetWithinPage().
func ExecutableOffset(r *Region, path string) (int64, error) {
	runtimeText := textStart(r.Addr())
	if runtimeText == 0 {
		return 0, errors.Errorf("region at %#x is not in the text segment", r.Addr())
	}

	f, err := elf.Open(path)
	if err != nil {
		return 0, systemError("open", err)
	}
	defer f.Close()

	text := f.Section(".text")
	if text == nil {
		return 0, errors.Errorf("%s has no .text section", path)
	}

	// Position independent executables are loaded at an offset from their
	// link address. The distance from runtime.text is the same either way.
	linkAddr := linkTextAddr(f, text) + uint64(r.Addr()-runtimeText)
	end := linkAddr + uint64(r.Len())

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if linkAddr >= prog.Vaddr && end <= prog.Vaddr+prog.Filesz {
			return int64(linkAddr - prog.Vaddr + prog.Off), nil
		}
	}

	return 0, errors.Errorf("address %#x is not in a loadable segment of %s", linkAddr, path)
}

// linkTextAddr returns the link address of runtime.text. That is the start
// of .text unless an external linker put C code in front of it.
func linkTextAddr(f *elf.File, text *elf.Section) uint64 {
	syms, err := f.Symbols()
	if err != nil {
		// Stripped.
		return text.Addr
	}
	for _, sym := range syms {
		if sym.Name == "runtime.text" {
			return sym.Value
		}
	}
	return text.Addr
}
