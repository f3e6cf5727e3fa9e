package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/testutils/fstest"
)

func TestFindFileInParentDirsOnRoot(t *testing.T) {
	_, err := FindFileInParentDirs(filepath.FromSlash("/"), "mytestfile-which-must-not-exist-1234")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindFileInParentDirWithExcessivePathSeperator(t *testing.T) {
	tempdir := fstest.TempDir(t)

	const wantedFilename = ".descpub.toml"
	const subdir1 = "subdir1"
	subdir2AbsPath := filepath.Join(tempdir, subdir1, "subdir2")
	wantedFileAbsPath := filepath.Join(tempdir, subdir1, wantedFilename)

	fstest.WriteToFile(t, []byte("hello"), filepath.Join(tempdir, subdir1, wantedFilename))
	require.NoError(t, os.MkdirAll(subdir2AbsPath, 0o755))

	foundPath, err := FindFileInParentDirs(subdir2AbsPath+string(os.PathSeparator), wantedFilename)
	assert.NoError(t, err)
	assert.Equal(t, wantedFileAbsPath, foundPath)
}

func TestSafeJoin(t *testing.T) {
	root := filepath.FromSlash("/work/space")

	testcases := []struct {
		rel      string
		expected string
		escapes  bool
	}{
		{rel: "desc.txt", expected: "/work/space/desc.txt"},
		{rel: "a/b/../desc.txt", expected: "/work/space/a/desc.txt"},
		{rel: "/desc.txt", expected: "/work/space/desc.txt"},
		{rel: ".", expected: "/work/space"},
		{rel: "../desc.txt", escapes: true},
		{rel: "a/../../other/desc.txt", escapes: true},
	}

	for _, tc := range testcases {
		t.Run(tc.rel, func(t *testing.T) {
			res, err := SafeJoin(root, tc.rel)
			if tc.escapes {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrPathEscapes))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tc.expected), res)
		})
	}
}

func TestMatchGlob(t *testing.T) {
	testcases := []struct {
		pattern string
		name    string
		match   bool
	}{
		{pattern: "os=linux,*", name: "os=linux,arch=amd64", match: true},
		{pattern: "*arch=arm*", name: "os=linux,arch=arm64", match: true},
		{pattern: "os=windows,*", name: "os=linux,arch=amd64", match: false},
		{pattern: "os={linux,darwin}", name: "os=darwin", match: true},
	}

	for _, tc := range testcases {
		t.Run(tc.pattern, func(t *testing.T) {
			res, err := MatchGlob(tc.pattern, tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.match, res)
		})
	}
}

func TestMatchGlobInvalidPattern(t *testing.T) {
	_, err := MatchGlob("os=[", "os=linux")
	assert.Error(t, err)
	assert.Error(t, ValidGlob("os=["))
	assert.NoError(t, ValidGlob("os=*"))
}
