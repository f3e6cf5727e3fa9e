// Package exec runs external commands
package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
)

var (
	// DefaultLogFn is the default debug print function.
	DefaultLogFn = func(string, ...any) {}
	// DefaultLogPrefix is the default prefix that is prepended to messages passed to the debugf function.
	DefaultLogPrefix = "exec: "
)

// Cmd represents a command that can be run.
type Cmd struct {
	name string
	args []string
	dir  string
	env  []string

	outputWriter  io.Writer
	logFn         func(format string, v ...any)
	logPrefix     string
	expectSuccess bool
}

// Command returns a new Cmd struct.
// If name contains no path separators, Command uses LookPath to
// resolve name to a complete path if possible. Otherwise it uses name directly
// as Path.
// By default a command is run in the current working directory.
func Command(name string, arg ...string) *Cmd {
	return &Cmd{
		name:      name,
		args:      arg,
		logFn:     DefaultLogFn,
		logPrefix: DefaultLogPrefix,
	}
}

// Directory changes the directory in which the command is executed.
func (c *Cmd) Directory(dir string) *Cmd {
	c.dir = dir
	return c
}

// Env sets the environment variables that the process uses.
// Each element is in the format KEY=VALUE.
// If it is not called, the process inherits the environment of the current
// process.
func (c *Cmd) Env(env []string) *Cmd {
	c.env = env
	return c
}

// LogPrefix sets a prefix that is prepended to the message that is passed to the log function.
func (c *Cmd) LogPrefix(prefix string) *Cmd {
	c.logPrefix = prefix
	return c
}

// LogFn sets the function that is called for debug messages.
func (c *Cmd) LogFn(fn func(format string, v ...any)) *Cmd {
	c.logFn = fn
	return c
}

// Output sets a writer to that every line the command writes to stdout or
// stderr is additionally streamed.
func (c *Cmd) Output(w io.Writer) *Cmd {
	c.outputWriter = w
	return c
}

// ExpectSuccess if called, Run() will return an ExitCodeError if the command
// did not exit with code 0.
func (c *Cmd) ExpectSuccess() *Cmd {
	c.expectSuccess = true
	return c
}

// Run executes the command.
// When ctx is canceled the process is killed and ctx.Err() is returned.
func (c *Cmd) Run(ctx context.Context) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.SysProcAttr = stepProcAttr()
	cmd.Dir = c.dir
	cmd.Env = c.env

	outReader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	c.logFn(c.logPrefix+"running '%s' in directory '%s'\n", cmdString(cmd), cmd.Dir)
	err = cmd.Start()
	if err != nil {
		return nil, err
	}

	var outBuf bytes.Buffer
	firstline := true
	in := bufio.NewScanner(outReader)
	for in.Scan() {
		c.logFn(c.logPrefix + in.Text() + "\n")
		if c.outputWriter != nil {
			fmt.Fprintln(c.outputWriter, in.Text())
		}

		if firstline {
			firstline = false
		} else {
			outBuf.WriteRune('\n')
		}

		outBuf.Write(in.Bytes())
	}

	if err := in.Err(); err != nil {
		_ = cmd.Wait()
		return nil, fmt.Errorf("reading output of command failed: %w", err)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	exitCode, err := exitCodeFromErr(waitErr)
	if err != nil {
		return nil, err
	}

	c.logFn(c.logPrefix+"command terminated with exitCode: %d\n", exitCode)

	result := Result{
		Command:  cmdString(cmd),
		Dir:      cmd.Dir,
		ExitCode: exitCode,
		Output:   outBuf.Bytes(),
	}
	if result.Dir == "" {
		result.Dir = "."
	}

	if c.expectSuccess && exitCode != 0 {
		return nil, &ExitCodeError{Result: &result}
	}

	return &result, nil
}

func cmdString(cmd *exec.Cmd) string {
	// cmd.Args[0] contains the command name, cmd.Path the absolute command path,
	// omit cmd.Args[0] from the string
	if len(cmd.Args) > 1 {
		return fmt.Sprintf("%s %v", cmd.Path, strings.Join(cmd.Args[1:], " "))
	}

	return cmd.Path
}

func exitCodeFromErr(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 0, err
	}

	if status, ok := ee.Sys().(syscall.WaitStatus); ok {
		return status.ExitStatus(), nil
	}

	return 0, err
}
