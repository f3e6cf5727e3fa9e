package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client API that is used by the S3
// workspace.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 is a workspace of objects in an S3 bucket that share a key prefix.
type S3 struct {
	clt    S3API
	bucket string
	prefix string
}

// NewS3 returns a workspace for objects in bucket below prefix.
func NewS3(clt S3API, bucket, prefix string) *S3 {
	return &S3{
		clt:    clt,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (w *S3) key(relPath string) (string, error) {
	rel, err := cleanRel(relPath)
	if err != nil {
		return "", err
	}

	if rel == "." {
		rel = ""
	}

	return strings.TrimPrefix(path.Join(w.prefix, rel), "/"), nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey":
		return true
	default:
		return false
	}
}

// Exists returns true if an object with the key exists.
// S3 has no directories, prefixes of existing keys are reported as not
// existing.
func (w *S3) Exists(ctx context.Context, relPath string) (bool, error) {
	key, err := w.key(relPath)
	if err != nil {
		return false, err
	}

	_, err = w.clt.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("s3://%s/%s: %w", w.bucket, key, err)
	}

	return true, nil
}

func (w *S3) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	key, err := w.key(relPath)
	if err != nil {
		return nil, err
	}

	out, err := w.clt.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", w.bucket, key, err)
	}

	return WithContext(ctx, out.Body), nil
}

func (w *S3) Sub(dir string) (Workspace, error) {
	key, err := w.key(dir)
	if err != nil {
		return nil, err
	}

	return &S3{clt: w.clt, bucket: w.bucket, prefix: key}, nil
}

func (w *S3) String() string {
	return fmt.Sprintf("s3://%s/%s", w.bucket, w.prefix)
}
