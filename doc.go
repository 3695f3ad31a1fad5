// Package headermap reads and writes clang header maps (.hmap files).
//
// A header map is an on-disk hash table from an include name, such as
// "Foo/Bar.h", to the directory and file name that resolve it. Xcode and
// other build systems generate them so the compiler can resolve framework
// style includes without searching include paths. The byte layout, the key
// hash and the probing discipline are fixed by clang; this package is
// bit-exact with them in both directions.
//
// # Basic Usage
//
// Building a map:
//
//	b := headermap.NewBuilder()
//	b.Add("Foo/Bar.h", "/src/foo/include/Bar.h")
//	b.Add("Foo/Baz.h", "/src/foo/include/Baz.h")
//	hmap, err := b.Finish()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := headermap.WriteFile("foo.hmap", hmap, 0o644); err != nil {
//	    log.Fatal(err)
//	}
//
// Reading a map:
//
//	hmap, err := headermap.Open("foo.hmap")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path, ok := hmap.Lookup("foo/bar.h") // case-insensitive
//
// # Layout Fidelity
//
// Decode keeps the bucket array and string pool it was given, so a decoded
// map re-encodes to the same bytes. Builder.Finish always lays the table out
// afresh: the bucket count is the smallest power of two that keeps the load
// factor at or below 3/4, and entries are placed in insertion order.
//
// # Package Structure
//
//   - Public API: builder.go (NewBuilder, Add, Insert, Finish), headermap.go (Lookup, Visit, Entries)
//   - Configuration: builder_options.go (BuildOption, With* functions)
//   - Serialization: header.go (header, bucket), decode.go, encode.go
//   - Hashing: hash.go (HashKey, ASCII case folding)
//   - Paths: path.go (SplitPath)
//   - Files: file.go (Open, WriteFile), batch.go (WriteAll)
//   - Platform: fallocate_*.go, advise_*.go (OS-specific optimizations)
package headermap
