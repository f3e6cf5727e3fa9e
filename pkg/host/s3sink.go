package host

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/simplesurance/descpub/internal/s3"
	"github.com/simplesurance/descpub/pkg/build"
)

// Uploader uploads data to S3.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) (string, error)
}

// S3Sink uploads descriptions to <prefix>/<project>/description.txt in an
// S3 bucket.
type S3Sink struct {
	uploader Uploader
	bucket   string
	prefix   string
}

// NewS3Sink returns a sink that uploads to the bucket and key prefix of an
// s3://<bucket>/<prefix> URL.
func NewS3Sink(uploader Uploader, url string) (*S3Sink, error) {
	bucket, prefix, err := s3.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return &S3Sink{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}, nil
}

// Key returns the object key for a project.
func (s *S3Sink) Key(project string) string {
	return path.Join(s.prefix, project, "description.txt")
}

func (s *S3Sink) Store(ctx context.Context, b *build.Build, desc string) error {
	url, err := s.uploader.Upload(
		ctx,
		strings.NewReader(desc),
		s.bucket,
		s.Key(b.Project.Name()),
		"text/plain; charset=utf-8",
	)
	if err != nil {
		return err
	}

	b.Console.Printf("description uploaded to %s", url)

	return nil
}

func (s *S3Sink) String() string {
	return s3.URL(s.bucket, s.prefix)
}
