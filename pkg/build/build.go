// Package build provides a minimal build host: projects, builds, matrix
// builds and lifecycle hooks that run when builds end.
package build

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simplesurance/descpub/pkg/workspace"
)

// Result is the outcome of a build.
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFailure Result = "FAILURE"
	ResultAborted Result = "ABORTED"
)

func (r Result) severity() int {
	switch r {
	case ResultSuccess:
		return 0
	case ResultFailure:
		return 1
	case ResultAborted:
		return 2
	default:
		return -1
	}
}

// Project is the owner of builds. It has a description that can be changed
// by builds.
type Project struct {
	name string

	mu          sync.Mutex
	description string
}

// NewProject returns a project with an empty description.
func NewProject(name string) *Project {
	return &Project{name: name}
}

// Name returns the name of the project.
func (p *Project) Name() string {
	return p.name
}

// SetDescription replaces the description of the project.
func (p *Project) SetDescription(desc string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.description = desc
}

// Description returns the current description of the project.
func (p *Project) Description() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.description
}

// Build is one execution of a job.
//
// A Build is either a standalone build, a member run of a matrix build or
// the aggregate of a matrix build.
type Build struct {
	Project *Project
	Number  int
	// ID is unique per build, member runs of a matrix build have the same
	// Number as their aggregate but different IDs.
	ID string
	// Env contains the job environment variables and for member runs the
	// values of the matrix axes.
	Env map[string]string
	// Combination is the matrix combination of a member run, it is nil
	// for other builds.
	Combination Combination
	// Workspace is nil when the workspace is unavailable.
	Workspace workspace.Workspace
	Console   *Console
	StartTime time.Time

	parent    *Build
	aggregate bool

	mu      sync.Mutex
	result  Result
	members []*Build
	errs    []error
}

// New returns a successful standalone build of project with a new ID.
// Its console only records lines.
func New(project *Project, number int) *Build {
	return &Build{
		Project:   project,
		Number:    number,
		ID:        uuid.NewString(),
		Env:       map[string]string{},
		Console:   NewConsole(nil, ""),
		StartTime: time.Now(),
		result:    ResultSuccess,
	}
}

// Name returns a string identifying the build, e.g. "web #12" or
// "web/os=linux #12".
func (b *Build) Name() string {
	if b.Combination != nil {
		return fmt.Sprintf("%s/%s #%d", b.Project.Name(), b.Combination, b.Number)
	}

	return fmt.Sprintf("%s #%d", b.Project.Name(), b.Number)
}

func (b *Build) String() string {
	return b.Name()
}

// DisplayName returns "#<Number>".
func (b *Build) DisplayName() string {
	return fmt.Sprintf("#%d", b.Number)
}

// IsMatrixRun returns true if the build is a member run of a matrix build.
func (b *Build) IsMatrixRun() bool {
	return b.parent != nil
}

// IsMatrixAggregate returns true if the build is the aggregate of a matrix
// build.
func (b *Build) IsMatrixAggregate() bool {
	return b.aggregate
}

// Parent returns the aggregate of a member run, nil for other builds.
func (b *Build) Parent() *Build {
	return b.parent
}

// Members returns the member runs of a matrix aggregate.
func (b *Build) Members() []*Build {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*Build(nil), b.members...)
}

func (b *Build) addMember(m *Build) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.members = append(b.members, m)
}

// Result returns the current result of the build.
// It is ResultSuccess until something failed.
func (b *Build) Result() Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.result
}

// SetResult sets the result of the build, if it is worse than the current
// one. A build that failed can not become successful again.
func (b *Build) SetResult(r Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.severity() > b.result.severity() {
		b.result = r
	}
}

// Fail records err and sets the result to ResultFailure.
func (b *Build) Fail(err error) {
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()

	b.SetResult(ResultFailure)
}

// Err returns all errors that were recorded for the build, joined.
// It returns nil if none were recorded.
func (b *Build) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return errors.Join(b.errs...)
}

// LookupEnv returns the value of an environment variable of the build.
func (b *Build) LookupEnv(name string) (string, bool) {
	v, exists := b.Env[name]
	return v, exists
}
