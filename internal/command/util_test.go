package command

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/exec"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/testutils/fstest"
	"github.com/simplesurance/descpub/internal/testutils/logwriter"
	"github.com/simplesurance/descpub/internal/testutils/ostest"
)

// interceptCmdOutput changes the stdout and stderr streams so that the
// commands write to the returned buffers, all output is additionally still
// logged via the test logger
func interceptCmdOutput(t *testing.T) (stdoutBuf, stderrBuf *bytes.Buffer) {
	var bufStdout bytes.Buffer
	var bufStderr bytes.Buffer

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, &bufStdout))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, &bufStderr))

	t.Cleanup(func() {
		stdout = oldStdout
		stderr = oldStderr
	})

	return &bufStdout, &bufStderr
}

type exitInfo struct {
	Code int
}

func (e *exitInfo) String() string {
	return fmt.Sprintf("program terminated with exit code: %d", e.Code)
}

// initTest does the following:
// - changes the exitFunc to panic instead of calling os.Exit(),
// - redirects stdout and stderr streams of the commands to the test logger,
// - redirects the log package and exec debug output to the test logger,
// - unsets the PostgreSQL URL environment variable,
// - changes the working directory to a new temporary directory and returns
// its path.
func initTest(t *testing.T) string {
	t.Helper()

	oldExitFunc := exitFunc
	exitFunc = func(code int) {
		panic(&exitInfo{Code: code})
	}

	log.RedirectToTestingLog(t)

	oldExecLogFn := exec.DefaultLogFn
	exec.DefaultLogFn = t.Logf

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, io.Discard))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, io.Discard))

	t.Cleanup(func() {
		exitFunc = oldExitFunc
		exec.DefaultLogFn = oldExecLogFn
		stdout = oldStdout
		stderr = oldStderr
		s3Client = nil
	})

	t.Setenv(envVarPSQLURL, "")

	dir := fstest.TempDir(t)
	ostest.Chdir(t, dir)

	return dir
}

// execCheck executes cmd with args and fails the test if it terminated
// with an exit code other than expectedExitCode.
// If expectedExitCode is -1 any exit code is accepted.
func execCheck(t *testing.T, cmd *cobra.Command, expectedExitCode int, args ...string) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			if expectedExitCode > 0 {
				t.Fatalf("command succeeded, expected exit code %d", expectedExitCode)
			}

			return
		}

		if info, ok := r.(*exitInfo); ok {
			if expectedExitCode == -1 {
				return
			}

			if info.Code != expectedExitCode {
				t.Fatalf("command exited with code %d, expected: %d", info.Code, expectedExitCode)
			}

			return
		}

		panic(r)
	}()

	// an empty non-nil slice prevents that cobra parses os.Args
	cmd.SetArgs(append([]string{}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("executing command failed: %s", err)
	}
}

// writeConfig writes a configuration file with the given content to dir.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ".descpub.toml")
	fstest.WriteToFile(t, []byte(content), path)

	return path
}

func fileExists(t *testing.T, path string) bool {
	t.Helper()

	_, err := os.Stat(path)
	if err == nil {
		return true
	}

	if os.IsNotExist(err) {
		return false
	}

	t.Fatal(err)
	return false
}
