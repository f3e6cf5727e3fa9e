//go:build s3test

package host

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/s3"
	"github.com/simplesurance/descpub/internal/testutils/s3test"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/workspace"
)

func TestS3SinkUploadIsReadableFromS3Workspace(t *testing.T) {
	log.RedirectToTestingLog(t)
	s3test.SetupEnv(t)

	ctx := context.Background()

	clt, err := s3.NewClient(ctx, log.StdLogger)
	require.NoError(t, err)

	sink, err := NewS3Sink(clt, s3.URL(s3test.Bucket, "descriptions/"))
	require.NoError(t, err)

	b := build.New(build.NewProject("web"), 7)
	require.NoError(t, sink.Store(ctx, b, "Build 7 of web: SUCCESS"))

	ws := workspace.NewS3(clt, s3test.Bucket, "descriptions")

	exists, err := ws.Exists(ctx, "web/description.txt")
	require.NoError(t, err)
	require.True(t, exists)

	rc, err := ws.Open(ctx, "web/description.txt")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Build 7 of web: SUCCESS", string(content))

	exists, err = ws.Exists(ctx, "api/description.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}
