// Package workspace provides access to the files of a build workspace.
//
// A workspace is a file tree that can be local, in an S3 bucket or inside a
// docker container. Paths passed to the methods are relative to the root of
// the workspace and use '/' as separator.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/simplesurance/descpub/internal/fs"
)

// Workspace is a file tree in that a build runs.
type Workspace interface {
	// Exists returns true if a file or directory exists at relPath.
	// Not existing paths are reported as false and a nil error, other
	// failures as error.
	Exists(ctx context.Context, relPath string) (bool, error)
	// Open opens the file at relPath for reading.
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Sub returns a workspace rooted at the directory dir below the
	// workspace root.
	Sub(dir string) (Workspace, error)
	// String returns a human readable description of the location.
	String() string
}

// ErrAbsolutePath is returned when an absolute path is passed where a path
// relative to the workspace is expected.
var ErrAbsolutePath = errors.New("path must be relative to the workspace")

// cleanRel normalizes a relative slash-separated path.
// Absolute paths are rejected with ErrAbsolutePath, paths that point
// outside of the root with fs.ErrPathEscapes.
func cleanRel(relPath string) (string, error) {
	p := strings.ReplaceAll(relPath, "\\", "/")
	if path.IsAbs(p) || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%s: %w", relPath, ErrAbsolutePath)
	}

	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%s: %w", relPath, fs.ErrPathEscapes)
	}

	return p, nil
}

// ctxReader returns errors from ctx when it is done.
type ctxReader struct {
	ctx context.Context
	rc  io.ReadCloser
}

// WithContext returns a ReadCloser that fails with ctx.Err() when the
// context is done before or while reading from rc.
func WithContext(ctx context.Context, rc io.ReadCloser) io.ReadCloser {
	return &ctxReader{ctx: ctx, rc: rc}
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.rc.Read(p)
}

func (r *ctxReader) Close() error {
	return r.rc.Close()
}
