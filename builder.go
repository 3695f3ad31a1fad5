package headermap

import (
	"math"
	"strings"
	"unicode/utf8"

	hmaperrors "github.com/tamirms/headermap/errors"
	intbits "github.com/tamirms/headermap/internal/bits"
)

const (
	// maxLoadNum/maxLoadDen is the load factor ceiling for built maps.
	maxLoadNum = 3
	maxLoadDen = 4

	// maxEntries keeps the bucket count at or below 1<<28, the largest
	// power of two whose bucket array still fits a 32-bit stringsOffset.
	maxEntries = 3 << 26
)

// Builder accumulates header map entries and lays them out into a fresh
// HeaderMap.
//
// Usage:
//
//	b := headermap.NewBuilder()
//	b.Add("Foo/Bar.h", "/src/foo/include/Bar.h")
//	hmap, err := b.Finish()
//	if err != nil { return err }
//	return os.WriteFile("foo.hmap", hmap.Bytes(), 0o644)
//
// Entry order determines the bucket layout, so identical sequences of Add
// calls produce identical bytes. A Builder is not safe for concurrent use.
type Builder struct {
	cfg *buildConfig

	entries []Entry        // insertion order
	index   map[string]int // case-folded key -> position in entries

	maxValueLength uint32
	poolSize       uint64 // bytes the strings need, terminators included
	closed         bool
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...BuildOption) *Builder {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	capacity := max(cfg.capacity, 0)
	return &Builder{
		cfg:     cfg,
		entries: make([]Entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// Add maps key to path, splitting path into directory prefix and filename
// suffix on the configured separator. It reports whether a new entry was
// added: re-adding a key with the same value, a conflicting value, or an
// invalid string all return false. Use Insert to tell these apart.
func (b *Builder) Add(key, path string) bool {
	prefix, suffix := SplitPath(path, b.cfg.separator)
	added, _ := b.Insert(key, prefix, suffix)
	return added
}

// Insert maps key to prefix+suffix.
//
// Keys are compared ASCII case-insensitively; the first spelling is the one
// stored. If key is already present with the same prefix and suffix,
// Insert returns (false, nil). If it is present with a different value,
// the existing value is kept and Insert returns
// (false, errors.ErrDuplicateKey). A failed Insert changes nothing.
func (b *Builder) Insert(key, prefix, suffix string) (bool, error) {
	if b.closed {
		return false, hmaperrors.ErrBuilderClosed
	}
	if strings.IndexByte(key, 0) >= 0 ||
		strings.IndexByte(prefix, 0) >= 0 ||
		strings.IndexByte(suffix, 0) >= 0 {
		return false, hmaperrors.ErrInvalidString
	}

	folded := foldKey(key)
	if i, ok := b.index[folded]; ok {
		existing := b.entries[i]
		if existing.Prefix == prefix && existing.Suffix == suffix {
			return false, nil
		}
		return false, hmaperrors.ErrDuplicateKey
	}

	if len(b.entries) >= maxEntries {
		return false, hmaperrors.ErrTooManyEntries
	}

	b.index[folded] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Prefix: prefix, Suffix: suffix})
	b.poolSize += uint64(len(key)+len(prefix)+len(suffix)) + 3

	n := uint32(utf8.RuneCountInString(prefix) + utf8.RuneCountInString(suffix))
	b.maxValueLength = max(b.maxValueLength, n)
	return true, nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// MaxValueLength returns the length in code points of the longest value
// added so far. See HeaderMap.MaxValueLength.
func (b *Builder) MaxValueLength() uint32 {
	return b.maxValueLength
}

// Finish lays out the accumulated entries and returns the finished map.
//
// The bucket count is the smallest power of two that keeps the load factor
// at or below 3/4. Entries are placed in insertion order by linear probing
// from HashKey(key), then the string pool is written in bucket order: a
// leading NUL, then key, prefix and suffix of each occupied bucket.
//
// After a successful Finish the builder cannot be used again.
func (b *Builder) Finish() (*HeaderMap, error) {
	if b.closed {
		return nil, hmaperrors.ErrBuilderClosed
	}
	if 1+b.poolSize > math.MaxUint32 {
		return nil, hmaperrors.ErrTooLarge
	}

	numBuckets := bucketsFor(len(b.entries))
	slots := b.place(numBuckets)

	buckets := make([]bucket, numBuckets)
	pool := make([]byte, 1, 1+b.poolSize)
	for i, slot := range slots {
		if slot == 0 {
			continue
		}
		e := b.entries[slot-1]
		buckets[i] = bucket{
			Key:    uint32(len(pool)),
			Prefix: uint32(len(pool) + len(e.Key) + 1),
			Suffix: uint32(len(pool) + len(e.Key) + 1 + len(e.Prefix) + 1),
		}
		pool = appendCString(pool, e.Key)
		pool = appendCString(pool, e.Prefix)
		pool = appendCString(pool, e.Suffix)
	}

	b.closed = true
	return &HeaderMap{
		order:          b.cfg.order,
		buckets:        buckets,
		pool:           pool,
		numEntries:     uint32(len(b.entries)),
		maxValueLength: b.maxValueLength,
	}, nil
}

// place assigns every entry to a bucket and returns, per bucket, the entry
// position plus one (zero for an empty bucket).
func (b *Builder) place(numBuckets uint32) []int32 {
	slots := make([]int32, numBuckets)
	for i, e := range b.entries {
		h := HashKey(e.Key)
		placed := false
		for probe := uint32(0); probe < numBuckets; probe++ {
			s := intbits.Wrap(h+probe, numBuckets)
			if slots[s] == 0 {
				slots[s] = int32(i + 1)
				placed = true
				break
			}
		}
		if !placed {
			// bucketsFor guarantees numBuckets > len(entries)
			panic("headermap: no free bucket for entry; load factor computation is inconsistent")
		}
	}
	return slots
}

// bucketsFor returns the smallest power of two b with n/b <= 3/4.
func bucketsFor(n int) uint32 {
	need := (uint64(n)*maxLoadDen + maxLoadNum - 1) / maxLoadNum
	return intbits.NextPow2(uint32(need))
}

func appendCString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, 0)
}
