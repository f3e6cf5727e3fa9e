// Package s3test configures tests to run against a local S3Mock instance.
package s3test

import "testing"

// Bucket must be created when S3Mock is started, via the environment
// variable initialBuckets=descpub-test.
const Bucket = "descpub-test"

// SetupEnv points the AWS SDK to S3Mock on localhost:9090.
func SetupEnv(t *testing.T) {
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:9090")

	// S3Mock does not verify credentials but the sdk refuses to sign
	// requests without them.
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "123")
	t.Setenv("AWS_ACCESS_KEY_ID", "123")
}
