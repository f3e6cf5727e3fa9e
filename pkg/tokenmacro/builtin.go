package tokenmacro

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/simplesurance/descpub/internal/vcs/git"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/workspace"
)

var errNoWorkspace = errors.New("build has no workspace")

type builtin struct {
	name        string
	description string
	eval        EvalFn
}

var builtins = []builtin{
	{
		name:        "BUILD_NUMBER",
		description: "number of the build",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			return strconv.Itoa(b.Number), nil
		},
	},
	{
		name:        "BUILD_ID",
		description: "unique ID of the build",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			return b.ID, nil
		},
	},
	{
		name:        "BUILD_RESULT",
		description: "current result of the build: SUCCESS, FAILURE or ABORTED",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			return string(b.Result()), nil
		},
	},
	{
		name:        "BUILD_DISPLAY_NAME",
		description: "display name of the build, #<number>",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			return b.DisplayName(), nil
		},
	},
	{
		name:        "JOB_NAME",
		description: "name of the project",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			return b.Project.Name(), nil
		},
	},
	{
		name:        "WORKSPACE",
		description: "location of the build workspace",
		eval: func(_ context.Context, b *build.Build, _ Args) (string, error) {
			if b.Workspace == nil {
				return "", errNoWorkspace
			}

			return b.Workspace.String(), nil
		},
	},
	{
		name:        "ENV",
		description: `value of an environment variable of the build or process, ${ENV,var="NAME"}`,
		eval:        evalEnv,
	},
	{
		name:        "FILE",
		description: `UTF-8 content of a workspace file, ${FILE,path="rel/path"}`,
		eval:        evalFile,
	},
	{
		name:        "UUID",
		description: "random UUID",
		eval: func(context.Context, *build.Build, Args) (string, error) {
			return uuid.NewString(), nil
		},
	},
	{
		name:        "GIT_COMMIT",
		description: `git commit ID of a local workspace, ${GIT_COMMIT,length=7,dirty=true}`,
		eval:        evalGitCommit,
	},
	{
		name:        "AXIS",
		description: `value of a matrix axis, ${AXIS,name="os"}`,
		eval:        evalAxis,
	},
}

func evalEnv(_ context.Context, b *build.Build, args Args) (string, error) {
	name, err := args.Required("var")
	if err != nil {
		return "", err
	}

	if v, exists := b.LookupEnv(name); exists {
		return v, nil
	}

	return os.Getenv(name), nil
}

func evalFile(ctx context.Context, b *build.Build, args Args) (string, error) {
	path, err := args.Required("path")
	if err != nil {
		return "", err
	}

	if b.Workspace == nil {
		return "", errNoWorkspace
	}

	rc, err := b.Workspace.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading %s failed: %w", path, err)
	}

	return string(content), nil
}

func evalGitCommit(ctx context.Context, b *build.Build, args Args) (string, error) {
	length, err := args.Int("length", 0)
	if err != nil {
		return "", err
	}

	markDirty, err := args.Bool("dirty", false)
	if err != nil {
		return "", err
	}

	l, ok := b.Workspace.(*workspace.Local)
	if !ok {
		return "", errors.New("git information is only available for local workspaces")
	}

	commit, err := git.CommitID(ctx, l.Dir())
	if err != nil {
		return "", err
	}

	if length > 0 && length < len(commit) {
		commit = commit[:length]
	}

	if markDirty {
		dirty, err := git.WorktreeIsDirty(ctx, l.Dir())
		if err != nil {
			return "", err
		}

		if dirty {
			commit += "-dirty"
		}
	}

	return commit, nil
}

func evalAxis(_ context.Context, b *build.Build, args Args) (string, error) {
	name, err := args.Required("name")
	if err != nil {
		return "", err
	}

	if b.Combination == nil {
		return "", errors.New("build is not a matrix run")
	}

	v, exists := b.Combination.Get(name)
	if !exists {
		return "", fmt.Errorf("matrix has no axis %q", name)
	}

	return v, nil
}
