//go:build !linux && !darwin

package headermap

import "os"

// reserveSpace sets the file size ahead of the write. Without a native
// fallocate this may not reserve disk blocks.
func reserveSpace(file *os.File, size int64) error {
	return file.Truncate(size)
}
