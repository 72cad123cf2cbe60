package classpath

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Platform holds the two host-dependent separators involved in reading a
// classpath: the one between classpath elements and the one between path
// components.
type Platform struct {
	// ListSeparator separates classpath elements (':' on POSIX, ';' on Windows)
	ListSeparator rune
	// PathSeparator separates directories within a path
	PathSeparator rune
}

// HostPlatform returns the separators of the running operating system.
func HostPlatform() Platform {
	return Platform{
		ListSeparator: os.PathListSeparator,
		PathSeparator: os.PathSeparator,
	}
}

// WithListSeparator returns a copy of p using the single-character sep as
// its classpath list separator. An empty sep leaves p unchanged.
func (p Platform) WithListSeparator(sep string) (Platform, error) {
	if sep == "" {
		return p, nil
	}
	r, size := utf8.DecodeRuneInString(sep)
	if r == utf8.RuneError || size != len(sep) {
		return p, fmt.Errorf("list separator must be a single character, got %q", sep)
	}
	p.ListSeparator = r
	return p, nil
}
