package build

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simplesurance/descpub/internal/fs"
	"github.com/simplesurance/descpub/pkg/workspace"
)

// Job describes what a build executes.
type Job struct {
	Name string
	// Steps are the commands that are run in order, each element is the
	// command name followed by its arguments.
	Steps [][]string
	Env   map[string]string

	// Axes turns the job into a matrix job, one member run is executed
	// per combination of axis values.
	Axes []Axis
	// Exclude contains glob patterns, combinations with a string
	// representation matching one of them are not run.
	Exclude []string
	// Parallelism is the max. number of member runs that are executed
	// in parallel.
	Parallelism uint

	Workspace workspace.Workspace
}

// Axis is a dimension of a matrix job.
type Axis struct {
	Name   string
	Values []string
}

// AxisValue is the value of one axis in a combination.
type AxisValue struct {
	Axis  string
	Value string
}

// Combination is one set of axis values, in the order the axes are defined.
type Combination []AxisValue

// String returns the combination in the format "axis1=val1,axis2=val2".
func (c Combination) String() string {
	var sb strings.Builder

	for i, av := range c {
		if i > 0 {
			sb.WriteRune(',')
		}

		sb.WriteString(av.Axis)
		sb.WriteRune('=')
		sb.WriteString(av.Value)
	}

	return sb.String()
}

// Get returns the value of the axis with the given name.
func (c Combination) Get(axis string) (string, bool) {
	for _, av := range c {
		if av.Axis == axis {
			return av.Value, true
		}
	}

	return "", false
}

// IsMatrix returns true if the job has axes.
func (j *Job) IsMatrix() bool {
	return len(j.Axes) > 0
}

// Validate checks the job definition.
func (j *Job) Validate() error {
	if j.Name == "" {
		return errors.New("job name is empty")
	}

	for i, step := range j.Steps {
		if len(step) == 0 || step[0] == "" {
			return fmt.Errorf("step %d: command is empty", i+1)
		}
	}

	seen := map[string]struct{}{}
	for _, a := range j.Axes {
		if a.Name == "" {
			return errors.New("axis name is empty")
		}

		if _, exists := seen[a.Name]; exists {
			return fmt.Errorf("axis %q is defined multiple times", a.Name)
		}
		seen[a.Name] = struct{}{}

		if len(a.Values) == 0 {
			return fmt.Errorf("axis %q has no values", a.Name)
		}
	}

	for _, pattern := range j.Exclude {
		if err := fs.ValidGlob(pattern); err != nil {
			return fmt.Errorf("exclude: %w", err)
		}
	}

	return nil
}

// Combinations returns the cartesian product of the axis values, without
// the excluded combinations.
// The first axis varies slowest.
func (j *Job) Combinations() ([]Combination, error) {
	if len(j.Axes) == 0 {
		return nil, nil
	}

	combinations := []Combination{{}}
	for _, axis := range j.Axes {
		next := make([]Combination, 0, len(combinations)*len(axis.Values))

		for _, c := range combinations {
			for _, v := range axis.Values {
				nc := make(Combination, len(c), len(c)+1)
				copy(nc, c)
				next = append(next, append(nc, AxisValue{Axis: axis.Name, Value: v}))
			}
		}

		combinations = next
	}

	result := make([]Combination, 0, len(combinations))
	for _, c := range combinations {
		excluded, err := j.isExcluded(c)
		if err != nil {
			return nil, err
		}

		if !excluded {
			result = append(result, c)
		}
	}

	return result, nil
}

func (j *Job) isExcluded(c Combination) (bool, error) {
	s := c.String()

	for _, pattern := range j.Exclude {
		matched, err := fs.MatchGlob(pattern, s)
		if err != nil {
			return false, err
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
