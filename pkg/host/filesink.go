package host

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/simplesurance/descpub/pkg/build"
)

// FileWriter writes the content of a reader to a file.
type FileWriter interface {
	Write(dst string, r io.Reader) (string, error)
}

// FileSink writes descriptions to <dir>/<project>/description.txt.
type FileSink struct {
	writer FileWriter
	dir    string
}

// NewFileSink returns a sink that writes descriptions below dir.
func NewFileSink(writer FileWriter, dir string) *FileSink {
	return &FileSink{writer: writer, dir: dir}
}

// Path returns the path of the description file of a project.
func (s *FileSink) Path(project string) string {
	return filepath.Join(s.dir, project, "description.txt")
}

func (s *FileSink) Store(_ context.Context, b *build.Build, desc string) error {
	path, err := s.writer.Write(s.Path(b.Project.Name()), strings.NewReader(desc))
	if err != nil {
		return err
	}

	b.Console.Printf("description written to %s", path)

	return nil
}

func (s *FileSink) String() string {
	return s.dir
}
