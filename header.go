package headermap

import (
	"encoding/binary"

	hmaperrors "github.com/tamirms/headermap/errors"
)

const (
	// magic number for header map files: "hmap" read as a 32-bit word.
	// Little-endian files start with the bytes "pamh".
	magic = uint32(0x686d6170)

	// version is the only format version clang reads and writes
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (24 bytes)
	headerSize = 24

	// bucketSize is the size of one bucket: three uint32 string offsets
	bucketSize = 12

	// emptyKey marks an unused bucket. The string pool always starts with a
	// NUL byte, so no live key can sit at offset 0.
	emptyKey = 0
)

// header is the 24-byte file header.
//
// Layout (all fields in file byte order, detected from Magic):
//
//	Offset  Size  Field           Type
//	0       4     Magic           0x686d6170 ("hmap")
//	4       2     Version         0x0001
//	6       2     Reserved        zero
//	8       4     StringsOffset   uint32 (from start of file)
//	12      4     NumEntries      uint32
//	16      4     NumBuckets      uint32 (power of two)
//	20      4     MaxValueLength  uint32
type header struct {
	Magic          uint32 // 4 bytes: magic number 0x686d6170
	Version        uint16 // 2 bytes: format version
	Reserved       uint16 // 2 bytes: ignored on read, written as zero
	StringsOffset  uint32 // 4 bytes: start of the string pool
	NumEntries     uint32 // 4 bytes: occupied buckets
	NumBuckets     uint32 // 4 bytes: bucket count
	MaxValueLength uint32 // 4 bytes: longest prefix+suffix
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte, order binary.ByteOrder) {
	order.PutUint32(buf[0:4], h.Magic)
	order.PutUint16(buf[4:6], h.Version)
	order.PutUint16(buf[6:8], 0)
	order.PutUint32(buf[8:12], h.StringsOffset)
	order.PutUint32(buf[12:16], h.NumEntries)
	order.PutUint32(buf[16:20], h.NumBuckets)
	order.PutUint32(buf[20:24], h.MaxValueLength)
}

// detectByteOrder returns the byte order that makes the first word of buf
// read as the magic number.
func detectByteOrder(buf []byte) (binary.ByteOrder, error) {
	switch magic {
	case binary.LittleEndian.Uint32(buf[0:4]):
		return binary.LittleEndian, nil
	case binary.BigEndian.Uint32(buf[0:4]):
		return binary.BigEndian, nil
	}
	return nil, hmaperrors.ErrInvalidMagic
}

// decodeHeader parses a 24-byte header and reports the file's byte order.
func decodeHeader(buf []byte) (*header, binary.ByteOrder, error) {
	if len(buf) < headerSize {
		return nil, nil, hmaperrors.ErrTruncatedFile
	}

	order, err := detectByteOrder(buf)
	if err != nil {
		return nil, nil, err
	}

	h := &header{
		Magic:          order.Uint32(buf[0:4]),
		Version:        order.Uint16(buf[4:6]),
		Reserved:       order.Uint16(buf[6:8]),
		StringsOffset:  order.Uint32(buf[8:12]),
		NumEntries:     order.Uint32(buf[12:16]),
		NumBuckets:     order.Uint32(buf[16:20]),
		MaxValueLength: order.Uint32(buf[20:24]),
	}

	if h.Version != version {
		return nil, nil, hmaperrors.ErrInvalidVersion
	}

	return h, order, nil
}

// bucket is one slot of the hash table. Each field is an offset into the
// string pool; Key == emptyKey means the slot is unused.
//
// Wire format (12 bytes, file byte order):
//
//	Offset  Size  Field   Type
//	0       4     Key     uint32
//	4       4     Prefix  uint32
//	8       4     Suffix  uint32
type bucket struct {
	Key    uint32
	Prefix uint32
	Suffix uint32
}

func (b bucket) empty() bool {
	return b.Key == emptyKey
}

// encodeBucketTo serializes a bucket into an existing buffer.
func encodeBucketTo(b bucket, buf []byte, order binary.ByteOrder) {
	order.PutUint32(buf[0:4], b.Key)
	order.PutUint32(buf[4:8], b.Prefix)
	order.PutUint32(buf[8:12], b.Suffix)
}

// decodeBucket parses a 12-byte bucket.
func decodeBucket(buf []byte, order binary.ByteOrder) bucket {
	return bucket{
		Key:    order.Uint32(buf[0:4]),
		Prefix: order.Uint32(buf[4:8]),
		Suffix: order.Uint32(buf[8:12]),
	}
}
