// Package filecopy writes files atomically into directories.
package filecopy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simplesurance/descpub/internal/fs"
)

var defLogFn = func(string, ...any) {}

// Client writes files.
type Client struct {
	debugLogFn func(string, ...any)
}

// New returns a client
func New(debugLogFn func(string, ...any)) *Client {
	logFn := defLogFn
	if debugLogFn != nil {
		logFn = debugLogFn
	}

	return &Client{debugLogFn: logFn}
}

// Write writes the content of r to dst.
// If the destination directory does not exist, it is created.
// If the destination path exists and is not a regular file an error is
// returned, otherwise it is replaced. The content is written to a temporary
// file in the destination directory first, readers of dst never see a
// partially written file.
func (c *Client) Write(dst string, r io.Reader) (string, error) {
	destDir := filepath.Dir(dst)

	isDir, err := fs.IsDir(destDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}

		err = fs.Mkdir(destDir)
		if err != nil {
			return "", fmt.Errorf("creating directory %s failed: %w", destDir, err)
		}
		c.debugLogFn("filecopy: created directory '%s'", destDir)
	} else if !isDir {
		return "", fmt.Errorf("%s is not a directory", destDir)
	}

	fi, err := os.Lstat(dst)
	if err == nil && !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s exists but is not a regular file", dst)
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	tmp, err := os.CreateTemp(destDir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s failed: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	c.debugLogFn("filecopy: wrote '%s'", dst)

	return dst, nil
}
