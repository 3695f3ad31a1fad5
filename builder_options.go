package headermap

import "encoding/binary"

// BuildOption is a functional option for configuring builds.
type BuildOption func(*buildConfig)

type buildConfig struct {
	separator byte             // path separator used by Add
	order     binary.ByteOrder // byte order of the serialized map
	capacity  int              // expected entry count, for pre-sizing
	workers   int              // WriteAll concurrency
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		separator: '/',
		order:     binary.LittleEndian, // clang hosts are little-endian; override via WithByteOrder
		workers:   0,                   // WriteAll defaults to GOMAXPROCS
	}
}

// WithSeparator sets the path separator Add splits values on.
// Default is '/'.
func WithSeparator(sep byte) BuildOption {
	return func(c *buildConfig) {
		c.separator = sep
	}
}

// WithByteOrder sets the byte order of the serialized map.
// Default is little-endian.
func WithByteOrder(order binary.ByteOrder) BuildOption {
	return func(c *buildConfig) {
		if order != nil {
			c.order = order
		}
	}
}

// WithCapacity pre-sizes the builder for n entries.
func WithCapacity(n int) BuildOption {
	return func(c *buildConfig) {
		c.capacity = n
	}
}

// WithWorkers sets the number of maps WriteAll builds concurrently.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}
