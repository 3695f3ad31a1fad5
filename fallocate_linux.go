//go:build linux

package headermap

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveSpace allocates size bytes for file up front, so a full disk fails
// the write instead of leaving a short header map behind the rename.
func reserveSpace(file *os.File, size int64) error {
	if size == 0 {
		return nil
	}
	if err := unix.Fallocate(int(file.Fd()), 0, 0, size); err != nil {
		// Not every filesystem supports fallocate (NFS, some FUSE mounts)
		return unix.Ftruncate(int(file.Fd()), size)
	}
	return nil
}
