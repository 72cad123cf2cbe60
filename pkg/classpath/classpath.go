package classpath

import (
	"strings"
)

// EnvVar is the environment variable consulted for the classpath
const EnvVar = "CLASSPATH"

// DefaultLocation is used when no classpath is configured
const DefaultLocation = "."

// Classpath is an ordered list of locations, each a directory or a zip
// archive. Order is significant and duplicates are kept.
type Classpath []string

// ParseClasspath splits value on the platform's list separator. An empty
// value yields the current directory. Trailing empty elements are dropped,
// so a value made only of separators yields an empty classpath; interior
// empty elements are kept and rejected later by the scanner.
func ParseClasspath(value string, p Platform) Classpath {
	if value == "" {
		return Classpath{DefaultLocation}
	}

	parts := strings.Split(value, string(p.ListSeparator))
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return Classpath(parts)
}

// ClasspathFromEnv reads the classpath through lookup, which has the shape
// of os.LookupEnv. A missing or empty variable means the current directory.
func ClasspathFromEnv(lookup func(string) (string, bool), p Platform) Classpath {
	value, ok := lookup(EnvVar)
	if !ok || value == "" {
		return Classpath{DefaultLocation}
	}
	return ParseClasspath(value, p)
}

// Join renders the classpath back into a single separator-delimited string.
func (c Classpath) Join(p Platform) string {
	return strings.Join(c, string(p.ListSeparator))
}
