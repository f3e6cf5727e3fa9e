// Package s3 provides a client for reading and writing objects in S3
// buckets.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client reads and uploads objects from/to S3.
type Client struct {
	clt      *s3.Client
	uploader *manager.Uploader
}

// Logger defines the interface for an S3 logger
type Logger interface {
	Debugf(format string, v ...any)
}

// DefaultRetries is the number of retries for a S3 request until an error
// is raised.
const DefaultRetries = 3

// NewClient returns a new S3 Client, configuration is read from env variables
// or configuration files,
// see https://docs.aws.amazon.com/sdkref/latest/guide/creds-config-files.html
func NewClient(ctx context.Context, logger Logger) (*Client, error) {
	s3Logger := &s3Logger{logger: logger}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRetryMaxAttempts(DefaultRetries),
		config.WithLogger(s3Logger),
		config.WithLogConfigurationWarnings(true),
	)
	if err != nil {
		return nil, err
	}

	clt := s3.NewFromConfig(
		cfg,
		func(o *s3.Options) {
			o.UsePathStyle = true
			o.Logger = s3Logger
			o.ClientLogMode = aws.LogRetries | aws.LogRequest
		},
	)

	return &Client{
		clt:      clt,
		uploader: manager.NewUploader(clt),
	}, nil
}

// HeadObject retrieves the metadata of an object.
func (c *Client) HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return c.clt.HeadObject(ctx, in, optFns...)
}

// GetObject retrieves an object.
func (c *Client) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return c.clt.GetObject(ctx, in, optFns...)
}

// Upload uploads the data read from body to bucket, on success it returns
// the s3:// URL of the object.
func (c *Client) Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) (string, error) {
	in := s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	res, err := c.uploader.Upload(ctx, &in)
	if err != nil {
		return "", err
	}

	return URL(bucket, aws.ToString(res.Key)), nil
}

// URL returns the s3:// URL of an object.
func URL(bucket, key string) string {
	u := url.URL{
		Scheme: "s3",
		Host:   bucket,
		Path:   "/" + strings.TrimPrefix(key, "/"),
	}

	return u.String()
}

// ParseURL splits an URL in the format s3://<bucket>/<key> into its
// parts. The key part is optional, it is returned without leading slash.
func ParseURL(u string) (bucket, key string, err error) {
	url, err := url.Parse(u)
	if err != nil {
		return "", "", err
	}

	if len(url.Scheme) > 0 && url.Scheme != "s3" {
		return "", "", fmt.Errorf("scheme is %s, expecting s3 or an empty one", url.Scheme)
	}
	if url.Host == "" {
		return "", "", fmt.Errorf("%s: bucket part is missing", u)
	}

	return url.Host, strings.TrimPrefix(url.Path, "/"), nil
}
