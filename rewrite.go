package selfcrypt

import (
	"io"
	"os"
	"path/filepath"

	"github.com/containerd/continuity"
	"github.com/pkg/errors"
)

// Image is a copy of an executable file held in memory while it is patched.
//
// A running executable can't be opened for writing (ETXTBSY), so the file
// is never modified in place. Commit writes a complete new file next to the
// original and renames it over the old one. The running process keeps the
// old inode mapped.
type Image struct {
	path string
	data []byte
	mode os.FileMode
}

// ReadImage reads the whole file at path. Symlinks are resolved so that
// Commit replaces the real file and not the link.
func ReadImage(path string) (*Image, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, systemError("resolve "+path, err)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, systemError("open", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, systemError("stat", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, systemError("read "+resolved, err)
	}

	return &Image{
		path: resolved,
		data: data,
		mode: fi.Mode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky),
	}, nil
}

// Path returns the resolved path of the file.
func (img *Image) Path() string {
	return img.path
}

// Bytes returns the buffered file contents.
func (img *Image) Bytes() []byte {
	return img.data
}

// Mode returns the permission bits the file had when it was read, including
// setuid, setgid and sticky.
func (img *Image) Mode() os.FileMode {
	return img.mode
}

// Splice overwrites len(b) bytes of the buffered file starting at off. The
// file length never changes.
func (img *Image) Splice(off int64, b []byte) error {
	if off < 0 || off+int64(len(b)) > int64(len(img.data)) {
		return errors.Errorf("splice of %d bytes at offset %d is outside the %d byte file %s", len(b), off, len(img.data), img.path)
	}
	copy(img.data[off:], b)
	return nil
}

// Commit atomically replaces the file with the buffered contents and
// reapplies the original permission bits.
func (img *Image) Commit() error {
	if err := continuity.AtomicWriteFile(img.path, img.data, img.mode); err != nil {
		return systemError("write "+img.path, err)
	}
	// AtomicWriteFile already chmods the temp file. This is only a
	// safeguard in case the library ever applies the umask instead.
	if err := os.Chmod(img.path, img.mode); err != nil {
		return systemError("chmod", err)
	}
	return nil
}

// Rewrite replaces the bytes at off in the file at path with b.
func Rewrite(path string, off int64, b []byte) error {
	img, err := ReadImage(path)
	if err != nil {
		return err
	}
	if err := img.Splice(off, b); err != nil {
		return err
	}
	return img.Commit()
}
