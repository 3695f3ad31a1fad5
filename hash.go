package headermap

// HashKey returns the bucket hash clang uses for header map keys: the sum
// of each ASCII-lowercased byte times 13, in wrapping 32-bit arithmetic.
// Bytes are taken as signed chars, as on the hosts Xcode runs on, so bytes
// >= 0x80 contribute a negative term.
//
// The function is part of the file format. Maps written with any other
// hash would decode structurally but route lookups to the wrong bucket.
func HashKey(key string) uint32 {
	var h uint32
	for i := 0; i < len(key); i++ {
		h += uint32(int32(int8(lower(key[i]))) * 13)
	}
	return h
}

// lower folds ASCII upper case only. clang's toLowercase does not fold
// bytes >= 0x80.
func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// equalFold reports whether a and b are equal under ASCII case folding.
func equalFold[A, B ~string | ~[]byte](a A, b B) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

// foldKey returns key with ASCII upper case lowered, for use as a map key.
func foldKey(key string) string {
	for i := 0; i < len(key); i++ {
		if 'A' <= key[i] && key[i] <= 'Z' {
			b := []byte(key)
			for j := i; j < len(b); j++ {
				b[j] = lower(b[j])
			}
			return string(b)
		}
	}
	return key
}
