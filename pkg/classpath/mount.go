package classpath

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Mounter resolves a classpath location to the filesystem that holds it and
// the location's path within that filesystem.
type Mounter func(location string) (billy.Filesystem, string, error)

// OSMounter mounts the parent directory of the absolute location from the
// host filesystem, so relative locations resolve against the working
// directory and locations above it ("../lib") stay reachable.
func OSMounter(location string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}

// FilesystemMounter serves every location from fs unchanged. Useful for
// in-memory filesystems.
func FilesystemMounter(fs billy.Filesystem) Mounter {
	return func(location string) (billy.Filesystem, string, error) {
		return fs, location, nil
	}
}
