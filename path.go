package headermap

// SplitPath splits path into a directory prefix and a filename suffix.
//
// The suffix is the final path component, keeping any trailing separators;
// the prefix is everything before it, ending in a separator. A path with a
// single component has an empty prefix. The split is purely lexical and
// prefix+suffix always equals path.
//
//	SplitPath("/usr/include/stdio.h", '/') == ("/usr/include/", "stdio.h")
//	SplitPath("stdio.h", '/')              == ("", "stdio.h")
//	SplitPath("a/b/", '/')                 == ("a/", "b/")
//	SplitPath("/", '/')                    == ("", "/")
func SplitPath(path string, sep byte) (prefix, suffix string) {
	end := len(path)
	for end > 0 && path[end-1] == sep {
		end--
	}
	for i := end - 1; i >= 0; i-- {
		if path[i] == sep {
			return path[:i+1], path[i+1:]
		}
	}
	return "", path
}
