package headermap

import "testing"

func TestSplitPathIdentity(t *testing.T) {
	paths := []string{
		"", ".", "/", "./", "../.", "./..", "//",
		"/asdf/fdgh", "asdf/fdgh", "asdf/fdgh/dsfg", "asdf//fdgh", "asdf/fdgh//",
	}
	for _, p := range paths {
		prefix, suffix := SplitPath(p, '/')
		if prefix+suffix != p {
			t.Errorf("SplitPath(%q) = (%q, %q), which does not rejoin", p, prefix, suffix)
		}
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path, prefix, suffix string
	}{
		{"", "", ""},
		{"stdio.h", "", "stdio.h"},
		{"/usr/include/stdio.h", "/usr/include/", "stdio.h"},
		{"/asdf/fdgh", "/asdf/", "fdgh"},
		{"asdf/fdgh/dsfg", "asdf/fdgh/", "dsfg"},
		{"asdf/fdgh/", "asdf/", "fdgh/"},
		{"asdf//fdgh", "asdf//", "fdgh"},
		{"/", "", "/"},
		{"./..", "./", ".."},
		{"../.", "../", "."},
	}
	for _, tt := range tests {
		prefix, suffix := SplitPath(tt.path, '/')
		if prefix != tt.prefix || suffix != tt.suffix {
			t.Errorf("SplitPath(%q) = (%q, %q), want (%q, %q)",
				tt.path, prefix, suffix, tt.prefix, tt.suffix)
		}
	}
}

func TestSplitPathSeparator(t *testing.T) {
	prefix, suffix := SplitPath(`C:\include\foo.h`, '\\')
	if prefix != `C:\include\` || suffix != "foo.h" {
		t.Errorf("SplitPath with backslash = (%q, %q)", prefix, suffix)
	}

	// A foreign separator is ordinary text.
	prefix, suffix = SplitPath("/usr/include/stdio.h", '\\')
	if prefix != "" || suffix != "/usr/include/stdio.h" {
		t.Errorf("SplitPath with unused separator = (%q, %q)", prefix, suffix)
	}
}

func TestSplitPathRandom(t *testing.T) {
	rng := newTestRNG(t)
	const alphabet = "ab./"
	for range 1000 {
		b := make([]byte, rng.IntN(12))
		for i := range b {
			b[i] = alphabet[rng.IntN(len(alphabet))]
		}
		p := string(b)
		prefix, suffix := SplitPath(p, '/')
		if prefix+suffix != p {
			t.Fatalf("SplitPath(%q) = (%q, %q), which does not rejoin", p, prefix, suffix)
		}
		if prefix != "" && prefix[len(prefix)-1] != '/' {
			t.Fatalf("SplitPath(%q) prefix %q does not end in a separator", p, prefix)
		}
	}
}
