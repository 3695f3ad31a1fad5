//go:build darwin

package headermap

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveSpace allocates size bytes for file up front, so a full disk fails
// the write instead of leaving a short header map behind the rename.
// On macOS, uses fcntl F_PREALLOCATE.
func reserveSpace(file *os.File, size int64) error {
	if size == 0 {
		return nil
	}
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Offset:  0,
		Length:  size,
	}
	if err := unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst); err != nil {
		return unix.Ftruncate(int(file.Fd()), size)
	}
	return nil
}
