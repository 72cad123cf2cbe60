package discoverer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// JunitDiscovererID is the key of the JUnit discoverer in configuration files
const JunitDiscovererID = "junit"

var (
	// DefaultIncludes follow the usual JUnit test class naming conventions
	DefaultIncludes = []string{"**/Test*", "**/*Test", "**/*Tests", "**/*TestCase"}
	// DefaultExcludes skip nested and anonymous classes
	DefaultExcludes = []string{"**/*$*"}
)

// JunitConfig represents configuration for the JUnit discoverer. Patterns
// are doublestar globs matched against class names written with '/' in
// place of '.', e.g. "com/acme/**/*IT".
type JunitConfig struct {
	// Include replaces DefaultIncludes when non-empty
	Include []string `json:"include"`
	// Exclude replaces DefaultExcludes when present, even if empty
	Exclude []string `json:"exclude"`
}

// GetDiscovererID returns the discoverer ID for JUnit test discovery
func (c *JunitConfig) GetDiscovererID() string {
	return JunitDiscovererID
}

// JunitDiscoverer discovers JUnit test classes by name
type JunitDiscoverer struct {
	includes []string
	excludes []string
}

// NewJunitDiscoverer creates a new JUnit test discoverer. A nil config uses
// the default patterns.
func NewJunitDiscoverer(cfg *JunitConfig) (*JunitDiscoverer, error) {
	includes, excludes := DefaultIncludes, DefaultExcludes
	if cfg != nil {
		if len(cfg.Include) > 0 {
			includes = cfg.Include
		}
		if cfg.Exclude != nil {
			excludes = cfg.Exclude
		}
	}

	// Copied so later edits to the defaults or the config do not leak in
	d := &JunitDiscoverer{
		includes: slices.Clone(includes),
		excludes: slices.Clone(excludes),
	}

	for _, pattern := range slices.Concat(d.includes, d.excludes) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid class pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	return d, nil
}

// Name returns the name of this discoverer
func (d *JunitDiscoverer) Name() string {
	return "JunitDiscoverer"
}

// Discover keeps classes matching an include pattern and no exclude pattern
func (d *JunitDiscoverer) Discover(ctx context.Context, classes []string) (*DiscoveryResult, error) {
	var tests []string
	for _, class := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.isTestClass(class) {
			tests = append(tests, class)
		}
	}

	return &DiscoveryResult{
		Classes: tests,
	}, nil
}

// isTestClass checks a class name against the configured patterns
func (d *JunitDiscoverer) isTestClass(class string) bool {
	path := strings.ReplaceAll(class, ".", "/")
	return matchAny(d.includes, path) && !matchAny(d.excludes, path)
}

// matchAny reports whether any of the patterns matches path. Patterns are
// validated up front, so matching cannot fail.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}
