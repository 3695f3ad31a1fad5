package headermap

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns an RNG seeded from the test name, so each test gets a
// distinct but reproducible sequence.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// xcodeSample is a 904-byte header map Xcode generated for a toy project,
// as little-endian 32-bit words. It has 3 entries in 64 buckets (6, 9, 31)
// and a string pool that shares the directory prefix between entries.
var xcodeSample = []uint32{
	0x686d6170, 0x00000001, 0x00000318, 0x00000003, 0x00000040, 0x0000004b,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x0000004b, 0x00000013, 0x0000004b, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000060, 0x00000013, 0x00000060,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000001, 0x00000013, 0x00000001,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x69755100, 0x7070417a, 0x656c6544, 0x65746167, 0x2f00682e, 0x72657355,
	0x616d2f73, 0x65696874, 0x75616275, 0x2f746564, 0x75636f44, 0x746e656d,
	0x63582f73, 0x5065646f, 0x656a6f72, 0x2f737463, 0x7a697551, 0x6975512f,
	0x51002f7a, 0x567a6975, 0x43776569, 0x72746e6f, 0x656c6c6f, 0x00682e72,
	0x7a697551, 0x6572502d, 0x2e786966, 0x00686370,}

const xcodeSampleString = `"QuizViewController.h" -> "/Users/mathieubaudet/Documents/XcodeProjects/Quiz/Quiz/QuizViewController.h"
"Quiz-Prefix.pch" -> "/Users/mathieubaudet/Documents/XcodeProjects/Quiz/Quiz/Quiz-Prefix.pch"
"QuizAppDelegate.h" -> "/Users/mathieubaudet/Documents/XcodeProjects/Quiz/Quiz/QuizAppDelegate.h"
`

// xcodeSampleBytes returns a fresh copy of the sample file.
func xcodeSampleBytes() []byte {
	buf := make([]byte, len(xcodeSample)*4)
	for i, w := range xcodeSample {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// buildFooMap builds the map used throughout the builder tests: keys
// "foo0".."foo<n-1>" mapped to "value of foo/<i>".
func buildFooMap(t testing.TB, n int, opts ...BuildOption) *HeaderMap {
	t.Helper()
	b := NewBuilder(opts...)
	for i := range n {
		if !b.Add(fmt.Sprintf("foo%d", i), fmt.Sprintf("value of foo/%d", i)) {
			t.Fatalf("Add(foo%d) returned false", i)
		}
	}
	m, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return m
}

// assertMapsEqual checks that every entry of each map resolves to the same
// value in the other, and that the header fields agree.
func assertMapsEqual(t *testing.T, a, b *HeaderMap) {
	t.Helper()
	a.Visit(func(key, prefix, suffix string) {
		got, ok := b.Lookup(key)
		if !ok || got != prefix+suffix {
			t.Errorf("Lookup(%q) = %q, %v; want %q", key, got, ok, prefix+suffix)
		}
	})
	if a == b {
		return
	}
	if a.NumBuckets() != b.NumBuckets() {
		t.Errorf("NumBuckets: %d != %d", a.NumBuckets(), b.NumBuckets())
	}
	if a.NumEntries() != b.NumEntries() {
		t.Errorf("NumEntries: %d != %d", a.NumEntries(), b.NumEntries())
	}
	if a.MaxValueLength() != b.MaxValueLength() {
		t.Errorf("MaxValueLength: %d != %d", a.MaxValueLength(), b.MaxValueLength())
	}
	b.Visit(func(key, prefix, suffix string) {
		got, ok := a.Lookup(key)
		if !ok || got != prefix+suffix {
			t.Errorf("reverse Lookup(%q) = %q, %v; want %q", key, got, ok, prefix+suffix)
		}
	})
	if !a.Equal(b) {
		t.Error("Equal returned false for maps with matching lookups")
	}
}

// mixCase flips the case of every other ASCII letter.
func mixCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if i%2 == 0 {
			continue
		}
		switch {
		case 'a' <= c && c <= 'z':
			b[i] = c - ('a' - 'A')
		case 'A' <= c && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// randomKey returns an include-like key of random ASCII letters.
func randomKey(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	n := 4 + rng.IntN(24)
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.IntN(len(letters))]
	}
	return string(b) + ".h"
}
