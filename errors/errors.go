// Package errors defines all exported error sentinels for the headermap library.
//
// This is the single source of truth for error values. Both the top-level
// headermap package and its commands import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// ErrMalformedFormat is wrapped by every decode error, so callers can test
// for "this is not a usable header map" without enumerating the causes.
var ErrMalformedFormat = errors.New("headermap: malformed header map")

// Decode errors
var (
	ErrTruncatedFile      = fmt.Errorf("%w: file is truncated", ErrMalformedFormat)
	ErrInvalidMagic       = fmt.Errorf("%w: invalid magic number", ErrMalformedFormat)
	ErrInvalidVersion     = fmt.Errorf("%w: unsupported version", ErrMalformedFormat)
	ErrInvalidBucketCount = fmt.Errorf("%w: bucket count is not a power of two", ErrMalformedFormat)
	ErrOffsetOutOfRange   = fmt.Errorf("%w: offset out of range", ErrMalformedFormat)
	ErrUnterminatedString = fmt.Errorf("%w: string is not NUL-terminated", ErrMalformedFormat)
	ErrEntryCountMismatch = fmt.Errorf("%w: entry count does not match occupied buckets", ErrMalformedFormat)
)

// Build errors
var (
	ErrBuilderClosed  = errors.New("headermap: builder is closed")
	ErrDuplicateKey   = errors.New("headermap: key already maps to a different value")
	ErrInvalidString  = errors.New("headermap: string contains a NUL byte")
	ErrTooManyEntries = errors.New("headermap: entry count exceeds maximum (3·2^26)")
	ErrTooLarge       = errors.New("headermap: string pool exceeds 32-bit offsets")
)
