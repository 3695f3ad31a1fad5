//go:build !linux

package headermap

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(data []byte) {}
