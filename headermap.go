package headermap

import (
	"bytes"
	"encoding/binary"
	"iter"
	"strconv"
	"strings"

	intbits "github.com/tamirms/headermap/internal/bits"
	"github.com/zeebo/xxh3"
)

// HeaderMap is an immutable header map: a hash table from include names to
// the directory prefix and filename suffix that resolve them.
//
// A HeaderMap is produced either by Decode (which keeps the bucket array
// and string pool of the input exactly) or by Builder.Finish (which lays
// the table out from scratch). It has no mutating methods.
//
// Thread Safety: all methods are safe for concurrent use.
type HeaderMap struct {
	order   binary.ByteOrder
	buckets []bucket
	pool    []byte // NUL-terminated strings, addressed by bucket offsets

	numEntries     uint32
	maxValueLength uint32
}

// Entry is one key and the two halves of its value.
type Entry struct {
	Key    string
	Prefix string
	Suffix string
}

// Value returns the full path the key resolves to.
func (e Entry) Value() string {
	return e.Prefix + e.Suffix
}

// NumBuckets returns the size of the bucket array. Always a power of two.
func (m *HeaderMap) NumBuckets() uint32 {
	return uint32(len(m.buckets))
}

// NumEntries returns the number of occupied buckets.
func (m *HeaderMap) NumEntries() uint32 {
	return m.numEntries
}

// MaxValueLength returns the length in characters of the longest value.
// Characters are Unicode code points, so a character outside the Basic
// Multilingual Plane counts once, not as two UTF-16 code units.
func (m *HeaderMap) MaxValueLength() uint32 {
	return m.maxValueLength
}

// ByteOrder returns the byte order the map is serialized in.
func (m *HeaderMap) ByteOrder() binary.ByteOrder {
	return m.order
}

// Lookup returns the value for key, compared ASCII case-insensitively.
//
// Probing starts at HashKey(key) and walks forward one bucket at a time,
// wrapping at the end. It stops at the first empty bucket, and after
// NumBuckets steps on a table with no empty bucket.
func (m *HeaderMap) Lookup(key string) (string, bool) {
	n := m.NumBuckets()
	h := HashKey(key)
	for probe := uint32(0); probe < n; probe++ {
		b := m.buckets[intbits.Wrap(h+probe, n)]
		if b.empty() {
			return "", false
		}
		if equalFold(m.bytesAt(b.Key), key) {
			return m.stringAt(b.Prefix) + m.stringAt(b.Suffix), true
		}
	}
	return "", false
}

// Visit calls fn for each entry in bucket-array order.
func (m *HeaderMap) Visit(fn func(key, prefix, suffix string)) {
	for e := range m.Entries() {
		fn(e.Key, e.Prefix, e.Suffix)
	}
}

// Entries returns the entries in bucket-array order. This order is what
// Bytes writes, so it is stable across a decode/encode round trip.
func (m *HeaderMap) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, b := range m.buckets {
			if b.empty() {
				continue
			}
			e := Entry{
				Key:    m.stringAt(b.Key),
				Prefix: m.stringAt(b.Prefix),
				Suffix: m.stringAt(b.Suffix),
			}
			if !yield(e) {
				return
			}
		}
	}
}

// String renders one `"key" -> "value"` line per entry, in bucket order.
func (m *HeaderMap) String() string {
	var sb strings.Builder
	for e := range m.Entries() {
		sb.WriteString(strconv.Quote(e.Key))
		sb.WriteString(" -> ")
		sb.WriteString(strconv.Quote(e.Value()))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equal reports whether m and other hold the same associations and the
// same bucket count, entry count, and max value length. Bucket positions
// and string pool layout may differ.
func (m *HeaderMap) Equal(other *HeaderMap) bool {
	if m == other {
		return true
	}
	if other == nil || m == nil {
		return false
	}
	if m.NumBuckets() != other.NumBuckets() ||
		m.numEntries != other.numEntries ||
		m.maxValueLength != other.maxValueLength {
		return false
	}
	return m.lookupsMatch(other) && other.lookupsMatch(m)
}

// lookupsMatch reports whether every entry of m resolves to the same value
// in other.
func (m *HeaderMap) lookupsMatch(other *HeaderMap) bool {
	for e := range m.Entries() {
		v, ok := other.Lookup(e.Key)
		if !ok || v != e.Value() {
			return false
		}
	}
	return true
}

// Digest returns a 128-bit xxHash3 of the serialized map. Two maps with the
// same digest serialize to the same bytes, which makes the digest usable as
// a build cache key for the generated file.
func (m *HeaderMap) Digest() [16]byte {
	return xxh3.Hash128(m.Bytes()).Bytes()
}

// bytesAt returns the NUL-terminated string at off, without the NUL.
// Decode has validated every live offset; out-of-range reads yield nil.
func (m *HeaderMap) bytesAt(off uint32) []byte {
	if uint64(off) >= uint64(len(m.pool)) {
		return nil
	}
	s := m.pool[off:]
	if end := bytes.IndexByte(s, 0); end >= 0 {
		return s[:end]
	}
	return s
}

func (m *HeaderMap) stringAt(off uint32) string {
	return string(m.bytesAt(off))
}
