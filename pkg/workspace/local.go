package workspace

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/simplesurance/descpub/internal/fs"
)

// Local is a workspace in a directory of the local filesystem.
type Local struct {
	dir string
}

// NewLocal returns a workspace rooted at dir.
// The directory is not required to exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &Local{dir: abs}, nil
}

// Dir returns the absolute path of the workspace directory.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) path(relPath string) (string, error) {
	rel, err := cleanRel(relPath)
	if err != nil {
		return "", err
	}

	return fs.SafeJoin(l.dir, rel)
}

func (l *Local) Exists(ctx context.Context, relPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p, err := l.path(relPath)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (l *Local) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := l.path(relPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}

	return WithContext(ctx, f), nil
}

// Sub returns a Local workspace for a subdirectory.
func (l *Local) Sub(dir string) (Workspace, error) {
	p, err := l.path(dir)
	if err != nil {
		return nil, err
	}

	return &Local{dir: p}, nil
}

func (l *Local) String() string {
	return l.dir
}
