package headermap

import (
	"bytes"
	"unicode/utf8"

	hmaperrors "github.com/tamirms/headermap/errors"
	intbits "github.com/tamirms/headermap/internal/bits"
)

// Decode parses a serialized header map.
//
// The bucket array is kept exactly as stored: nothing is rehashed or moved,
// so Bytes on the result reproduces a compactly laid out input byte for
// byte. The string pool is copied; buf may be reused once Decode returns.
//
// Beyond the structural checks, Decode requires the string pool to hold at
// least one byte (stringsOffset < len(buf)) and the header's entry count to
// equal the number of occupied buckets (errors.ErrEntryCountMismatch).
//
// Every error wraps errors.ErrMalformedFormat. No partial map is returned.
func Decode(buf []byte) (*HeaderMap, error) {
	hdr, order, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}

	if !intbits.IsPow2(hdr.NumBuckets) {
		return nil, hmaperrors.ErrInvalidBucketCount
	}

	bufLen := uint64(len(buf))
	bucketsEnd := uint64(headerSize) + uint64(hdr.NumBuckets)*bucketSize
	if bucketsEnd > bufLen {
		return nil, hmaperrors.ErrTruncatedFile
	}

	// The pool must not overlap the bucket array, and must hold at least
	// one byte so offset 0 is addressable.
	stringsOffset := uint64(hdr.StringsOffset)
	if stringsOffset < bucketsEnd || stringsOffset >= bufLen {
		return nil, hmaperrors.ErrOffsetOutOfRange
	}
	pool := buf[stringsOffset:]

	buckets := make([]bucket, hdr.NumBuckets)
	var numEntries, maxValueLength uint32
	for i := range buckets {
		off := headerSize + i*bucketSize
		b := decodeBucket(buf[off:off+bucketSize], order)
		buckets[i] = b
		if b.empty() {
			continue
		}
		numEntries++

		if _, err := terminated(pool, b.Key); err != nil {
			return nil, err
		}
		prefix, err := terminated(pool, b.Prefix)
		if err != nil {
			return nil, err
		}
		suffix, err := terminated(pool, b.Suffix)
		if err != nil {
			return nil, err
		}
		if n := uint32(utf8.RuneCount(prefix) + utf8.RuneCount(suffix)); n > maxValueLength {
			maxValueLength = n
		}
	}

	if numEntries != hdr.NumEntries {
		return nil, hmaperrors.ErrEntryCountMismatch
	}

	return &HeaderMap{
		order:          order,
		buckets:        buckets,
		pool:           bytes.Clone(pool),
		numEntries:     numEntries,
		maxValueLength: maxValueLength,
	}, nil
}

// terminated returns the string at off in pool, checking that it starts
// inside the pool and ends with a NUL before the end of the buffer.
func terminated(pool []byte, off uint32) ([]byte, error) {
	if uint64(off) >= uint64(len(pool)) {
		return nil, hmaperrors.ErrOffsetOutOfRange
	}
	s := pool[off:]
	end := bytes.IndexByte(s, 0)
	if end < 0 {
		return nil, hmaperrors.ErrUnterminatedString
	}
	return s[:end], nil
}
