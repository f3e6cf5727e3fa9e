package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/exec"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/testutils/fstest"
	"github.com/simplesurance/descpub/internal/testutils/gittest"
)

func redirectLogs(t *testing.T) {
	log.RedirectToTestingLog(t)
	oldExecLogFn := exec.DefaultLogFn
	exec.DefaultLogFn = t.Logf
	t.Cleanup(func() {
		exec.DefaultLogFn = oldExecLogFn
	})
}

func TestCommitID(t *testing.T) {
	if !CommandIsInstalled() {
		t.Skip("git is not installed")
	}

	redirectLogs(t)

	dir := t.TempDir()
	gittest.CreateRepository(t, dir)
	fstest.WriteToFile(t, []byte("hello"), filepath.Join(dir, "README"))
	expected := gittest.CommitAll(t, dir)

	commitID, err := CommitID(context.Background(), filepath.Join(dir))
	require.NoError(t, err)
	assert.Equal(t, expected, commitID)

	dirty, err := WorktreeIsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	fstest.WriteToFile(t, []byte("changed"), filepath.Join(dir, "README"))
	dirty, err = WorktreeIsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCommitIDNoRepository(t *testing.T) {
	redirectLogs(t)

	_, err := CommitID(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepositoryNotExist))
}
