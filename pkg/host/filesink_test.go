package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/filecopy"
	"github.com/simplesurance/descpub/pkg/build"
)

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filecopy.New(t.Logf), dir)

	b := build.New(build.NewProject("web"), 3)
	require.NoError(t, New(nil, sink).SetDescription(context.Background(), b, "release 3"))

	content, err := os.ReadFile(filepath.Join(dir, "web", "description.txt"))
	require.NoError(t, err)
	assert.Equal(t, "release 3", string(content))
	assert.Equal(t, "release 3", b.Project.Description())
	assert.Contains(t, b.Console.Lines(), "description written to "+filepath.Join(dir, "web", "description.txt"))
}
