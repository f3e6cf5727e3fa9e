package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/pkg/workspace"
)

type hookRecorder struct {
	mu            sync.Mutex
	buildEnd      []*Build
	aggregateEnd  []*Build
	seenAtAggrEnd int
}

func (r *hookRecorder) attach(h *Hooks) {
	h.OnBuildEnd(func(_ context.Context, b *Build) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.buildEnd = append(r.buildEnd, b)
		return nil
	})

	h.OnAggregateEnd(func(_ context.Context, b *Build) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.aggregateEnd = append(r.aggregateEnd, b)
		r.seenAtAggrEnd = len(r.buildEnd)
		return nil
	})
}

func TestStandaloneBuildRunsBuildEndHooksOnce(t *testing.T) {
	log.RedirectToTestingLog(t)

	var rec hookRecorder
	hooks := NewHooks()
	rec.attach(hooks)

	ws, err := workspace.NewLocal(t.TempDir())
	require.NoError(t, err)

	b, err := NewRunner(hooks).Run(
		context.Background(),
		NewProject("web"),
		&Job{Name: "web", Workspace: ws},
	)
	require.NoError(t, err)

	assert.Equal(t, ResultSuccess, b.Result())
	assert.Equal(t, 1, b.Number)
	assert.False(t, b.IsMatrixRun())
	assert.False(t, b.IsMatrixAggregate())
	assert.Len(t, rec.buildEnd, 1)
	assert.Empty(t, rec.aggregateEnd)
	assert.Same(t, b, rec.buildEnd[0])
}

func TestBuildNumbersIncrease(t *testing.T) {
	runner := NewRunner(NewHooks())
	project := NewProject("web")

	for i := 1; i <= 3; i++ {
		b, err := runner.Run(context.Background(), project, &Job{Name: "web"})
		require.NoError(t, err)
		assert.Equal(t, i, b.Number)
	}
}

func TestMatrixBuild(t *testing.T) {
	log.RedirectToTestingLog(t)

	var rec hookRecorder
	hooks := NewHooks()
	rec.attach(hooks)

	dir := t.TempDir()
	ws, err := workspace.NewLocal(dir)
	require.NoError(t, err)

	job := Job{
		Name: "web",
		Axes: []Axis{
			{Name: "os", Values: []string{"linux", "darwin"}},
			{Name: "arch", Values: []string{"amd64", "arm64"}},
		},
		Exclude:     []string{"os=darwin,arch=amd64"},
		Parallelism: 2,
		Workspace:   ws,
	}

	agg, err := NewRunner(hooks).Run(context.Background(), NewProject("web"), &job)
	require.NoError(t, err)

	assert.True(t, agg.IsMatrixAggregate())
	assert.Equal(t, ResultSuccess, agg.Result())

	members := agg.Members()
	require.Len(t, members, 3)

	var names []string
	for _, m := range members {
		assert.True(t, m.IsMatrixRun())
		assert.Same(t, agg, m.Parent())
		assert.Equal(t, agg.Number, m.Number)
		assert.NotEqual(t, agg.ID, m.ID)
		names = append(names, m.Combination.String())

		v, exists := m.LookupEnv("os")
		assert.True(t, exists)
		axisVal, _ := m.Combination.Get("os")
		assert.Equal(t, axisVal, v)

		assert.DirExists(t, filepath.Join(dir, m.Combination.String()))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"os=darwin,arch=arm64", "os=linux,arch=amd64", "os=linux,arch=arm64"}, names)

	assert.Len(t, rec.buildEnd, 3)
	require.Len(t, rec.aggregateEnd, 1)
	assert.Same(t, agg, rec.aggregateEnd[0])
	assert.Equal(t, 3, rec.seenAtAggrEnd, "aggregate-end hook ran before all member runs finished")
}

func TestFailingMemberFailsAggregate(t *testing.T) {
	log.RedirectToTestingLog(t)

	ws, err := workspace.NewLocal(t.TempDir())
	require.NoError(t, err)

	job := Job{
		Name:      "web",
		Axes:      []Axis{{Name: "code", Values: []string{"0", "1"}}},
		Steps:     [][]string{{"sh", "-c", "exit $code"}},
		Workspace: ws,
	}

	agg, err := NewRunner(NewHooks()).Run(context.Background(), NewProject("web"), &job)
	require.NoError(t, err)

	assert.Equal(t, ResultFailure, agg.Result())

	for _, m := range agg.Members() {
		if v, _ := m.Combination.Get("code"); v == "0" {
			assert.Equal(t, ResultSuccess, m.Result())
		} else {
			assert.Equal(t, ResultFailure, m.Result())
			assert.Error(t, m.Err())
		}
	}
}

func TestStepsRunInWorkspaceWithBuildEnv(t *testing.T) {
	log.RedirectToTestingLog(t)

	dir := t.TempDir()
	ws, err := workspace.NewLocal(dir)
	require.NoError(t, err)

	job := Job{
		Name: "web",
		Env:  map[string]string{"GREETING": "hello"},
		Steps: [][]string{
			{"sh", "-c", `echo "$GREETING $JOB_NAME #$BUILD_NUMBER" > out.txt`},
			{"sh", "-c", "echo done"},
		},
		Workspace: ws,
	}

	b, err := NewRunner(NewHooks()).Run(context.Background(), NewProject("web"), &job)
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, b.Result())

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello web #1\n", string(content))

	assert.Contains(t, b.Console.Lines(), "done")
}

func TestFailingStepStopsBuild(t *testing.T) {
	log.RedirectToTestingLog(t)

	ws, err := workspace.NewLocal(t.TempDir())
	require.NoError(t, err)

	job := Job{
		Name: "web",
		Steps: [][]string{
			{"false"},
			{"sh", "-c", "echo unreachable"},
		},
		Workspace: ws,
	}

	var hookRan bool
	hooks := NewHooks()
	hooks.OnBuildEnd(func(context.Context, *Build) error {
		hookRan = true
		return nil
	})

	b, err := NewRunner(hooks).Run(context.Background(), NewProject("web"), &job)
	require.NoError(t, err)

	assert.Equal(t, ResultFailure, b.Result())
	assert.NotContains(t, b.Console.Lines(), "unreachable")
	assert.True(t, hookRan, "build-end hooks must run for failed builds")
}

func TestFailingHookFailsBuild(t *testing.T) {
	hookErr := errors.New("hook failed")

	var secondRan bool
	hooks := NewHooks()
	hooks.OnBuildEnd(func(context.Context, *Build) error { return hookErr })
	hooks.OnBuildEnd(func(context.Context, *Build) error {
		secondRan = true
		return nil
	})

	b, err := NewRunner(hooks).Run(context.Background(), NewProject("web"), &Job{Name: "web"})
	require.NoError(t, err)

	assert.Equal(t, ResultFailure, b.Result())
	assert.ErrorIs(t, b.Err(), hookErr)
	assert.True(t, secondRan)
}

func TestStepsInNonLocalWorkspaceAreRejected(t *testing.T) {
	job := Job{
		Name:      "web",
		Steps:     [][]string{{"true"}},
		Workspace: workspace.NewS3(nil, "bucket", ""),
	}

	_, err := NewRunner(NewHooks()).Run(context.Background(), NewProject("web"), &job)
	assert.Error(t, err)
}

type failingNumberSource struct{}

func (failingNumberSource) NextBuildNumber(context.Context, string) (int, error) {
	return 0, errors.New("db down")
}

func TestNumberSourceErrorIsReturned(t *testing.T) {
	_, err := NewRunner(NewHooks(), WithNumberSource(failingNumberSource{})).
		Run(context.Background(), NewProject("web"), &Job{Name: "web"})
	assert.ErrorContains(t, err, "db down")
}

func TestCanceledContextAbortsBuild(t *testing.T) {
	log.RedirectToTestingLog(t)

	ws, err := workspace.NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := NewRunner(NewHooks()).Run(ctx, NewProject("web"), &Job{
		Name:      "web",
		Steps:     [][]string{{"sleep", "10"}},
		Workspace: ws,
	})
	require.NoError(t, err)

	assert.Equal(t, ResultAborted, b.Result())
}
