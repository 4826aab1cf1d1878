package marvrun

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SiteConfigFile is the file whose presence marks a directory as a MARV site.
const SiteConfigFile = "marv.conf"

// ResolveSite validates that path is a directory containing marv.conf and
// returns its absolute, symlink-free form.
// It returns ErrInvalidSite for an empty path, a missing path, a path that is
// not a directory, or a directory without marv.conf.
func ResolveSite(path string) (string, error) {
	dir, err := resolveDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidSite, err)
	}

	info, err := os.Stat(filepath.Join(dir, SiteConfigFile))
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidSite, path)
	}
	return dir, nil
}

// ResolveScanRoot validates that path is an existing directory and returns its
// absolute, symlink-free form. It returns ErrInvalidScanRoot otherwise.
func ResolveScanRoot(path string) (string, error) {
	dir, err := resolveDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidScanRoot, err)
	}
	return dir, nil
}

// resolveDir makes path absolute, resolves every symlink in it and checks that
// the result is a directory. Error messages name the path as given.
func resolveDir(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	// EvalSymlinks fails on a missing path, which doubles as the existence check.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%s: no such directory", path)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", path)
	}
	return resolved, nil
}
