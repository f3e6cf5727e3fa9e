// Package fs provides helpers to operate on files and directories.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned by SafeJoin when the joined path is not within
// the root directory.
var ErrPathEscapes = errors.New("path is outside of the root directory")

// IsDir returns true if the path is a directory.
// If the directory does not exist, the error from os.Stat() is returned.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.IsDir(), nil
}

// FindFileInParentDirs finds a file in startPath or its parent directories.
// The function starts looking for a file called filename in startPath and then
// checks recursively its parent directories.
// It returns the absolute path of the first match.
// If it reaches the root directory without finding the file it returns
// os.ErrNotExist.
func FindFileInParentDirs(startPath, filename string) (string, error) {
	// filepath.Clean() is called to remove excessive PathSeperators from the end.
	// If this does not happen, the search might be aborted too early because a path
	// ending in a Separator is interpreted as the root directory.
	searchDir := filepath.Clean(startPath)

	for {
		p := filepath.Join(searchDir, filename)

		_, err := os.Stat(p)
		if err == nil {
			abs, err := filepath.Abs(p)
			if err != nil {
				return "", fmt.Errorf("could not get absolute path of %v: %w", p, err)
			}

			return abs, nil
		}

		if !os.IsNotExist(err) {
			return "", err
		}

		if searchDir[len(searchDir)-1] == os.PathSeparator {
			return "", os.ErrNotExist
		}

		searchDir = filepath.Dir(searchDir)
	}
}

// SafeJoin joins relPath to root and returns the result.
// relPath is interpreted relative to root also if it starts with a path
// separator. If the cleaned result is not root or a path below it,
// ErrPathEscapes is returned.
func SafeJoin(root, relPath string) (string, error) {
	root = filepath.Clean(root)
	joined := filepath.Join(root, filepath.FromSlash(relPath))

	rel, err := filepath.Rel(root, joined)
	if err != nil {
		return "", fmt.Errorf("%s: %w", relPath, ErrPathEscapes)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", relPath, ErrPathEscapes)
	}

	return joined, nil
}

// Mkdir creates recursively directories
func Mkdir(path string) error {
	return os.MkdirAll(path, os.FileMode(0o755))
}
