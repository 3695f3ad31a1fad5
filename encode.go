package headermap

import (
	"io"
	"slices"
)

// Size returns the number of bytes Bytes will produce.
func (m *HeaderMap) Size() int {
	return headerSize + len(m.buckets)*bucketSize + len(m.pool)
}

// Bytes serializes the map.
//
// The string pool starts right after the bucket array, buckets are written
// in array order and the pool in its existing order, all in the map's byte
// order. Decoding the result and calling Bytes again yields the same bytes.
func (m *HeaderMap) Bytes() []byte {
	return m.AppendTo(nil)
}

// AppendTo appends the serialized map to dst and returns the extended slice.
func (m *HeaderMap) AppendTo(dst []byte) []byte {
	start := len(dst)
	dst = slices.Grow(dst, m.Size())
	dst = dst[:start+headerSize+len(m.buckets)*bucketSize]

	hdr := header{
		Magic:          magic,
		Version:        version,
		StringsOffset:  uint32(headerSize + len(m.buckets)*bucketSize),
		NumEntries:     m.numEntries,
		NumBuckets:     m.NumBuckets(),
		MaxValueLength: m.maxValueLength,
	}
	hdr.encodeTo(dst[start:], m.order)

	off := start + headerSize
	for _, b := range m.buckets {
		encodeBucketTo(b, dst[off:off+bucketSize], m.order)
		off += bucketSize
	}

	return append(dst, m.pool...)
}

// WriteTo writes the serialized map to w. It implements io.WriterTo.
func (m *HeaderMap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.Bytes())
	return int64(n), err
}
