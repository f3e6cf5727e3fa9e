package workspace

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
)

// ContainerAPI is the subset of the docker client API that is used by the
// Docker workspace.
type ContainerAPI interface {
	ContainerStatPath(ctx context.Context, containerID, path string) (container.PathStat, error)
	CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, container.PathStat, error)
}

// Docker is a workspace in the filesystem of a docker container.
type Docker struct {
	clt         ContainerAPI
	containerID string
	root        string
}

// NewDocker returns a workspace for the directory root inside the container
// with the given name or ID.
func NewDocker(clt ContainerAPI, containerID, root string) *Docker {
	if root == "" {
		root = "/"
	}

	return &Docker{
		clt:         clt,
		containerID: containerID,
		root:        path.Clean("/" + root),
	}
}

func (w *Docker) path(relPath string) (string, error) {
	rel, err := cleanRel(relPath)
	if err != nil {
		return "", err
	}

	return path.Join(w.root, rel), nil
}

func (w *Docker) Exists(ctx context.Context, relPath string) (bool, error) {
	p, err := w.path(relPath)
	if err != nil {
		return false, err
	}

	_, err = w.clt.ContainerStatPath(ctx, w.containerID, p)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("%s:%s: %w", w.containerID, p, err)
	}

	return true, nil
}

// Open copies the file out of the container.
// The docker API transfers files as tar archive, the returned reader
// provides the content of the first archive entry.
func (w *Docker) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	p, err := w.path(relPath)
	if err != nil {
		return nil, err
	}

	rc, stat, err := w.clt.CopyFromContainer(ctx, w.containerID, p)
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", w.containerID, p, err)
	}

	if stat.Mode.IsDir() {
		rc.Close()
		return nil, fmt.Errorf("%s:%s: is a directory", w.containerID, p)
	}

	tr := tar.NewReader(rc)
	hdr, err := tr.Next()
	if err != nil {
		rc.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s:%s: docker returned an empty archive", w.containerID, p)
		}

		return nil, fmt.Errorf("%s:%s: reading archive failed: %w", w.containerID, p, err)
	}

	if hdr.Typeflag != tar.TypeReg {
		rc.Close()
		return nil, fmt.Errorf("%s:%s: is not a regular file", w.containerID, p)
	}

	return WithContext(ctx, &tarEntryReader{Reader: tr, closer: rc}), nil
}

type tarEntryReader struct {
	io.Reader
	closer io.Closer
}

func (r *tarEntryReader) Close() error {
	return r.closer.Close()
}

func (w *Docker) Sub(dir string) (Workspace, error) {
	p, err := w.path(dir)
	if err != nil {
		return nil, err
	}

	return &Docker{clt: w.clt, containerID: w.containerID, root: p}, nil
}

func (w *Docker) String() string {
	return fmt.Sprintf("docker://%s%s", w.containerID, w.root)
}
