package classpath

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyLocation is returned for an empty classpath element, which is
	// neither a directory nor an archive.
	ErrEmptyLocation = errors.New("empty classpath location")

	// ErrNotArchive is returned when a location that is not a directory
	// cannot be read as a zip archive.
	ErrNotArchive = errors.New("not a readable zip archive")
)

// archiveSeparator separates path components in zip entry names on every
// platform.
const archiveSeparator = '/'

// Scanner enumerates the class names available under classpath locations.
type Scanner struct {
	platform Platform
	mount    Mounter
	lookup   func(string) (string, bool)
	workers  int
	logger   *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPlatform overrides the host separators.
func WithPlatform(p Platform) Option {
	return func(s *Scanner) {
		s.platform = p
	}
}

// WithMounter changes how locations are resolved to filesystems.
func WithMounter(m Mounter) Option {
	return func(s *Scanner) {
		s.mount = m
	}
}

// WithEnvLookup replaces os.LookupEnv when reading the classpath variable.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(s *Scanner) {
		s.lookup = lookup
	}
}

// WithWorkers scans up to n locations concurrently. Output order does not
// depend on n.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithLogger sets the logger used for per-location debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner reading the host filesystem and environment.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		platform: HostPlatform(),
		mount:    OSMounter,
		lookup:   os.LookupEnv,
		workers:  1,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAllClasses scans the classpath of the current process with a default
// scanner.
func FindAllClasses() ([]string, error) {
	return NewScanner().FindAllClasses(context.Background())
}

// Classpath returns the classpath the scanner reads from its environment.
func (s *Scanner) Classpath() Classpath {
	return ClasspathFromEnv(s.lookup, s.platform)
}

// FindAllClasses scans every location of the environment classpath.
func (s *Scanner) FindAllClasses(ctx context.Context) ([]string, error) {
	return s.Scan(ctx, s.Classpath())
}

// Scan returns the class names of every location in cp, concatenated in
// classpath order. Any failing location fails the whole scan.
func (s *Scanner) Scan(ctx context.Context, cp Classpath) ([]string, error) {
	perLocation := make([][]string, len(cp))

	if s.workers <= 1 || len(cp) <= 1 {
		for i, location := range cp {
			classes, err := s.ScanLocation(ctx, location)
			if err != nil {
				return nil, err
			}
			perLocation[i] = classes
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i, location := range cp {
			g.Go(func() error {
				classes, err := s.ScanLocation(gctx, location)
				if err != nil {
					return err
				}
				perLocation[i] = classes
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var result []string
	for _, classes := range perLocation {
		result = append(result, classes...)
	}
	return result, nil
}

// ScanLocation returns the class names found under a single location. A
// directory is walked recursively; anything else is read as a zip archive.
func (s *Scanner) ScanLocation(ctx context.Context, location string) ([]string, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs, root, err := s.mount(location)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", location, err)
	}

	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", location, err)
	}

	var classes []string
	kind := "archive"
	if info.IsDir() {
		kind = "directory"
		classes, err = s.scanDirectory(ctx, fs, root, info)
	} else {
		classes, err = s.scanArchive(ctx, fs, root, info.Size())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s %s: %w", kind, location, err)
	}

	s.logger.Debug("scanned classpath location",
		"location", location,
		"kind", kind,
		"classes", len(classes))

	return classes, nil
}

// scanDirectory walks root depth-first in lexical order. Unreadable
// directories abort the walk. Symbolic links are followed, except a link
// back to a directory already being walked on the current branch.
func (s *Scanner) scanDirectory(ctx context.Context, fs billy.Filesystem, root string, info os.FileInfo) ([]string, error) {
	var classes []string
	err := s.walkDirectory(ctx, fs, root, "", []os.FileInfo{info}, &classes)
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// walkDirectory appends the classes below dir, whose path relative to the
// location root is rel. ancestors holds the directories from the root down
// to dir.
func (s *Scanner) walkDirectory(ctx context.Context, fs billy.Filesystem, dir, rel string, ancestors []os.FileInfo, classes *[]string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := fs.Join(dir, entry.Name())
		relPath := filepath.Join(rel, entry.Name())

		linked := entry.Mode()&os.ModeSymlink != 0
		if linked {
			target, err := fs.Stat(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				// dangling links are listed by name only
			case err != nil:
				return err
			default:
				entry = target
			}
		}

		if !entry.IsDir() {
			if className, ok := ClassName(relPath, s.platform.PathSeparator); ok {
				*classes = append(*classes, className)
			}
			continue
		}

		if isCycle(entry, linked, ancestors) {
			s.logger.Debug("skipping directory link cycle", "path", path)
			continue
		}
		if err := s.walkDirectory(ctx, fs, path, relPath, append(ancestors, entry), classes); err != nil {
			return err
		}
	}
	return nil
}

// isCycle reports whether dir is one of its own ancestors. Filesystems that
// expose no file identity (memfs) cannot be checked, so directories reached
// through a link on them are treated as cycles and not entered.
func isCycle(dir os.FileInfo, linked bool, ancestors []os.FileInfo) bool {
	if !os.SameFile(dir, dir) {
		return linked
	}
	for _, ancestor := range ancestors {
		if os.SameFile(dir, ancestor) {
			return true
		}
	}
	return false
}

// scanArchive lists the entries of a zip archive in central directory order.
func (s *Scanner) scanArchive(ctx context.Context, fs billy.Filesystem, name string, size int64) ([]string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The reader is still usable when only entry path validation failed.
	zr, err := zip.NewReader(f, size)
	if zr == nil {
		return nil, fmt.Errorf("%w: %w", ErrNotArchive, err)
	}

	var classes []string
	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if className, ok := ClassName(entry.Name, archiveSeparator); ok {
			classes = append(classes, className)
		}
	}
	return classes, nil
}
