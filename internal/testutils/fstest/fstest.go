// Package fstest provides helpers for tests that operate on files.
package fstest

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteToFile writes data to path, missing parent directories are created.
func WriteToFile(t *testing.T, data []byte, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// TempDir returns t.TempDir() with symlinks resolved.
// On macOS the temporary directory is below a symlink, paths that are
// computed from the working directory would otherwise differ.
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	return dir
}
