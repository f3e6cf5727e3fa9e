// Package git provides functionality to interact with a Git repository.
package git

import (
	"context"
	"errors"
	"os"
	stdexec "os/exec"
	"strings"

	"github.com/simplesurance/descpub/internal/exec"
	"github.com/simplesurance/descpub/internal/fs"
)

// ErrRepositoryNotExist is returned when a directory is not part of a git
// repository.
var ErrRepositoryNotExist = errors.New("not a git repository")

// CommandIsInstalled returns true if an executable called "git" is found in
// the directories listed in the PATH environment variable.
func CommandIsInstalled() bool {
	_, err := stdexec.LookPath("git")

	return err == nil
}

// IsGitDir checks if the passed directory is part of a git repository.
// It returns true if dir or any of its parent directory containing a
// directory or file (worktrees, submodules) named ".git".
func IsGitDir(dir string) (bool, error) {
	_, err := fs.FindFileInParentDirs(dir, ".git")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CommitID returns the commit id of HEAD by running git rev-parse in the
// passed directory.
// If dir is not part of a git repository ErrRepositoryNotExist is returned.
func CommitID(ctx context.Context, dir string) (string, error) {
	isGitDir, err := IsGitDir(dir)
	if err != nil {
		return "", err
	}

	if !isGitDir {
		return "", ErrRepositoryNotExist
	}

	res, err := exec.Command("git", "rev-parse", "HEAD").Directory(dir).ExpectSuccess().Run(ctx)
	if err != nil {
		return "", err
	}

	commitID := strings.TrimSpace(res.StrOutput())
	if len(commitID) == 0 {
		return "", errors.New("executing git rev-parse HEAD failed, no Stdout output")
	}

	return commitID, nil
}

// WorktreeIsDirty returns true if the repository contains modified files,
// untracked files are considered, files in .gitignore are ignored
func WorktreeIsDirty(ctx context.Context, dir string) (bool, error) {
	res, err := exec.Command("git", "status", "-s").Directory(dir).ExpectSuccess().Run(ctx)
	if err != nil {
		return false, err
	}

	return len(res.Output) != 0, nil
}
