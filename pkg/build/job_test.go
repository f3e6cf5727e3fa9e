package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinations(t *testing.T) {
	job := Job{
		Name: "x",
		Axes: []Axis{
			{Name: "os", Values: []string{"linux", "windows"}},
			{Name: "go", Values: []string{"1.24", "1.25"}},
		},
		Exclude: []string{"os=windows,*"},
	}

	combinations, err := job.Combinations()
	require.NoError(t, err)

	var strs []string
	for _, c := range combinations {
		strs = append(strs, c.String())
	}

	assert.Equal(t, []string{"os=linux,go=1.24", "os=linux,go=1.25"}, strs)
}

func TestCombinationGet(t *testing.T) {
	c := Combination{{Axis: "os", Value: "linux"}}

	v, exists := c.Get("os")
	assert.True(t, exists)
	assert.Equal(t, "linux", v)

	_, exists = c.Get("arch")
	assert.False(t, exists)
}

func TestValidate(t *testing.T) {
	testcases := []struct {
		name string
		job  Job
	}{
		{name: "noName", job: Job{}},
		{name: "emptyStep", job: Job{Name: "x", Steps: [][]string{{}}}},
		{name: "emptyAxisName", job: Job{Name: "x", Axes: []Axis{{Values: []string{"a"}}}}},
		{name: "duplicateAxis", job: Job{Name: "x", Axes: []Axis{
			{Name: "a", Values: []string{"1"}},
			{Name: "a", Values: []string{"2"}},
		}}},
		{name: "axisWithoutValues", job: Job{Name: "x", Axes: []Axis{{Name: "a"}}}},
		{name: "invalidExclude", job: Job{Name: "x", Exclude: []string{"[a"}}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.job.Validate())
		})
	}
}

func TestConsoleWriteSplitsLines(t *testing.T) {
	c := NewConsole(nil, "")

	_, err := c.Write([]byte("one\ntw"))
	require.NoError(t, err)
	_, err = c.Write([]byte("o\n"))
	require.NoError(t, err)

	c.Printf("three %d", 3)

	assert.Equal(t, []string{"one", "two", "three 3"}, c.Lines())
}

func TestSetResultDoesNotImprove(t *testing.T) {
	b := Build{result: ResultSuccess}

	b.SetResult(ResultAborted)
	b.SetResult(ResultFailure)
	b.SetResult(ResultSuccess)

	assert.Equal(t, ResultAborted, b.Result())
}
