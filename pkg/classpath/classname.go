package classpath

import (
	"strings"
	"unicode/utf8"
)

// classSuffix marks a compiled class file. Matching is case-insensitive.
const classSuffix = ".class"

// ClassName converts a path relative to a classpath location into a dotted
// class name. sep is the separator used inside relPath: '/' for archive
// entries, the host path separator for directory entries.
//
// The name is cut at the first ".class" in the path. Paths without ".class",
// or where it sits at position 0, are rejected.
func ClassName(relPath string, sep rune) (string, bool) {
	lower := strings.ToLower(relPath)
	pos := strings.Index(lower, classSuffix)
	if pos <= 0 {
		return "", false
	}

	// Lowering keeps the rune count but not always the byte count, so the
	// cut is made by rune offset in relPath itself.
	remaining := utf8.RuneCountInString(lower[:pos])
	prefix := relPath
	for i := range relPath {
		if remaining == 0 {
			prefix = relPath[:i]
			break
		}
		remaining--
	}

	return strings.ReplaceAll(prefix, string(sep), "."), true
}
