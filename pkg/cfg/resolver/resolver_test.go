package resolver

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/vcs/git"
)

func TestGoTemplate(t *testing.T) {
	const envVar = "_descpubTestEnvVar"
	t.Setenv(envVar, "hello123")

	subject := NewGoTemplate("/tmp/f00bar", func() (string, error) {
		return "commit1231231231", nil
	})

	testcases := []struct {
		name   string
		input  string
		result string
	}{
		{name: "env", input: `test {{ env "_descpubTestEnvVar" }} {{ env "_descpubTestEnvVar" }}bye`, result: "test hello123 hello123bye"},
		{name: "root", input: "{{ .root }}/desc.txt", result: "/tmp/f00bar/desc.txt"},
		{name: "gitcommit", input: "{{ gitcommit }}", result: "commit1231231231"},
		{name: "tokensAreKept", input: "desc-${BUILD_NUMBER}.txt", result: "desc-${BUILD_NUMBER}.txt"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := subject.Resolve(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.result, result)
		})
	}

	result, err := subject.Resolve("{{ uuid }}")
	require.NoError(t, err)
	_, err = uuid.Parse(result)
	assert.NoError(t, err)
}

func TestGoTemplateFails(t *testing.T) {
	subject := NewGoTemplate("/", func() (string, error) {
		return "", git.ErrRepositoryNotExist
	})

	for _, in := range []string{
		`{{ env "_descpub_UNDEFINED_VAR" }}`,
		"{{ .unknown }}",
		"{{ gitcommit }}",
		"{{ unclosed",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := subject.Resolve(in)
			assert.Error(t, err)
		})
	}
}

func TestStrReplacement(t *testing.T) {
	testcases := []struct {
		in     string
		result string
	}{
		{in: "hello", result: "bye"},
		{in: "byehellobye", result: "byebyebye"},
		{in: "hellohello", result: "byebye"},
		{in: "yo", result: "yo"},
		{in: "", result: ""},
	}

	r := StrReplacement{Old: "hello", New: "bye"}

	for _, tc := range testcases {
		t.Run(tc.in, func(t *testing.T) {
			result, err := r.Resolve(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.result, result)
		})
	}
}

func TestStrReplacementWithEmptyOldIsNoop(t *testing.T) {
	r := StrReplacement{Old: "", New: "/root"}

	result, err := r.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", result)
}

type failingResolver struct{}

func (failingResolver) Resolve(string) (string, error) {
	return "", errors.New("failed")
}

func TestList(t *testing.T) {
	l := List{
		&StrReplacement{Old: "$ROOT", New: "{{ .root }}"},
		NewGoTemplate("/repo", nil),
	}

	result, err := l.Resolve("$ROOT/x")
	require.NoError(t, err)
	assert.Equal(t, "/repo/x", result)

	_, err = append(l, failingResolver{}).Resolve("a")
	assert.Error(t, err)
}
