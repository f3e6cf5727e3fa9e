// Package gittest provides helpers to create git repositories in tests.
package gittest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/exec"
)

// CreateRepository initializes a git repository in directory and configures
// a committer identity for it.
func CreateRepository(t *testing.T, directory string) {
	t.Helper()

	ctx := context.Background()

	_, err := exec.Command("git", "init", ".").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)

	_, err = exec.Command("git", "config", "user.email", "descpub@example.com").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)

	_, err = exec.Command("git", "config", "user.name", "descpub").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)
}

// CommitAll adds all files in directory and commits them.
// It returns the commit ID of HEAD.
func CommitAll(t *testing.T, directory string) string {
	t.Helper()

	ctx := context.Background()

	_, err := exec.Command("git", "add", "-A").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)

	_, err = exec.Command("git", "commit", "-m", "descpub commit").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)

	res, err := exec.Command("git", "rev-parse", "HEAD").Directory(directory).ExpectSuccess().Run(ctx)
	require.NoError(t, err)

	return res.StrOutput()
}
