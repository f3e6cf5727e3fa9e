package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/fatih/color"

	"github.com/simplesurance/descpub/internal/exec"
	"github.com/simplesurance/descpub/internal/fs"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/routines"
	"github.com/simplesurance/descpub/pkg/workspace"
)

// NumberSource hands out build numbers.
type NumberSource interface {
	NextBuildNumber(ctx context.Context, project string) (int, error)
}

// Counter is an in-memory NumberSource, numbers start at 1 per project.
type Counter struct {
	mu   sync.Mutex
	last map[string]int
}

func (c *Counter) NextBuildNumber(_ context.Context, project string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		c.last = map[string]int{}
	}

	c.last[project]++

	return c.last[project], nil
}

// Runner executes jobs and runs the registered hooks when builds end.
type Runner struct {
	hooks   *Hooks
	numbers NumberSource
	out     io.Writer
	logger  *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithNumberSource sets where build numbers come from, the default is an
// in-memory Counter.
func WithNumberSource(src NumberSource) Option {
	return func(r *Runner) {
		r.numbers = src
	}
}

// WithOutput sets the writer to that build consoles are streamed.
// By default console lines are only recorded.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the logger for debug messages.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a Runner that runs hooks.
func NewRunner(hooks *Hooks, opts ...Option) *Runner {
	r := Runner{
		hooks:   hooks,
		numbers: &Counter{},
		logger:  log.StdLogger,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return &r
}

// Run executes job as a new build of project.
//
// For a standalone job the steps are run, followed by the build-end hooks.
// For a matrix job a member run is executed for every combination, with at
// most job.Parallelism member runs in parallel. Every member run executes
// the steps in its own workspace subdirectory, named after the
// combination, and runs the build-end hooks. When all member runs finished
// the aggregate-end hooks are run with the aggregate build.
//
// Failing steps and hooks do not cause an error to be returned, they are
// reflected in the result of the returned build. An error is only returned
// when the build could not be started.
func (r *Runner) Run(ctx context.Context, project *Project, job *Job) (*Build, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	if len(job.Steps) > 0 && job.Workspace != nil {
		if _, ok := job.Workspace.(*workspace.Local); !ok {
			return nil, fmt.Errorf("build steps can only be run in local workspaces, workspace is %s", job.Workspace)
		}
	}

	number, err := r.numbers.NextBuildNumber(ctx, project.Name())
	if err != nil {
		return nil, fmt.Errorf("retrieving build number failed: %w", err)
	}

	if !job.IsMatrix() {
		b := r.newBuild(project, number, job, job.Workspace, nil, nil)
		r.execute(ctx, job, b)
		r.finish(ctx, b, r.hooks.buildEndHooks())

		return b, nil
	}

	return r.runMatrix(ctx, project, number, job)
}

func (r *Runner) runMatrix(ctx context.Context, project *Project, number int, job *Job) (*Build, error) {
	combinations, err := job.Combinations()
	if err != nil {
		return nil, err
	}

	agg := r.newBuild(project, number, job, job.Workspace, nil, nil)
	agg.aggregate = true

	members := make([]*Build, 0, len(combinations))
	for _, c := range combinations {
		ws, err := memberWorkspace(job.Workspace, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}

		m := r.newBuild(project, number, job, ws, c, agg)
		agg.addMember(m)
		members = append(members, m)
	}

	agg.Console.Printf("running %d matrix combinations", len(members))

	pool := routines.NewPool(job.Parallelism)
	for _, m := range members {
		pool.Queue(func() {
			r.execute(ctx, job, m)
			r.finish(ctx, m, r.hooks.buildEndHooks())
		})
	}
	pool.Wait()

	for _, m := range members {
		agg.SetResult(m.Result())
	}

	r.finish(ctx, agg, r.hooks.aggregateEndHooks())

	return agg, nil
}

func memberWorkspace(ws workspace.Workspace, c Combination) (workspace.Workspace, error) {
	if ws == nil {
		return nil, nil
	}

	sub, err := ws.Sub(c.String())
	if err != nil {
		return nil, err
	}

	if l, ok := sub.(*workspace.Local); ok {
		if err := fs.Mkdir(l.Dir()); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

func (r *Runner) newBuild(project *Project, number int, job *Job, ws workspace.Workspace, c Combination, parent *Build) *Build {
	env := make(map[string]string, len(job.Env)+len(c))
	for k, v := range job.Env {
		env[k] = v
	}

	for _, av := range c {
		env[av.Axis] = av.Value
	}

	b := New(project, number)
	b.Env = env
	b.Combination = c
	b.Workspace = ws
	b.parent = parent
	b.Console = NewConsole(r.out, color.YellowString("%s: ", b.Name()))

	return b
}

// execute runs the steps of job, it stops at the first failing step.
func (r *Runner) execute(ctx context.Context, job *Job, b *Build) {
	if len(job.Steps) == 0 {
		return
	}

	var dir string
	if l, ok := b.Workspace.(*workspace.Local); ok {
		dir = l.Dir()
	}

	env := buildEnviron(b, job)

	for _, step := range job.Steps {
		b.Console.Printf("+ %s", fmtStep(step))

		_, err := exec.Command(step[0], step[1:]...).
			Directory(dir).
			Env(env).
			Output(b.Console).
			LogFn(r.logger.Debugf).
			LogPrefix(color.YellowString("%s: ", b.Name())).
			ExpectSuccess().
			Run(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				b.Console.Printf("build aborted: %s", err)
				b.SetResult(ResultAborted)
				return
			}

			var ecErr *exec.ExitCodeError
			if errors.As(err, &ecErr) {
				b.Console.Printf("step exited with code %d", ecErr.ExitCode)
				b.Fail(fmt.Errorf("step %q exited with code %d", fmtStep(step), ecErr.ExitCode))
				return
			}

			b.Console.Printf("running step failed: %s", err)
			b.Fail(fmt.Errorf("step %q: %w", fmtStep(step), err))
			return
		}
	}
}

func (r *Runner) finish(ctx context.Context, b *Build, hooks []HookFn) {
	if err := runHooks(ctx, b, hooks); err != nil {
		r.logger.Debugf("%s: hooks failed: %s", b, err)
	}

	b.Console.Printf("finished: %s", b.Result())
}

// buildEnviron returns the process environment for the steps of b.
func buildEnviron(b *Build, job *Job) []string {
	vars := map[string]string{
		"BUILD_NUMBER": strconv.Itoa(b.Number),
		"BUILD_ID":     b.ID,
		"JOB_NAME":     job.Name,
	}

	if l, ok := b.Workspace.(*workspace.Local); ok {
		vars["WORKSPACE"] = l.Dir()
	}

	for k, v := range b.Env {
		vars[k] = v
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}

	return env
}

func fmtStep(step []string) string {
	return fmt.Sprint(step)
}
