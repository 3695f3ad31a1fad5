//go:build linux

package headermap

import "golang.org/x/sys/unix"

// adviseSequential tells the kernel a mapping is about to be read front to
// back, so readahead can fetch the string pool while buckets are decoded.
// Best-effort: errors are ignored.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
