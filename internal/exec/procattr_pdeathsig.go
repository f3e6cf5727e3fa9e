//go:build linux || freebsd

package exec

import "syscall"

// stepProcAttr makes the kernel kill build steps when descpub terminates,
// steps of an interrupted run must not keep writing to the workspace.
func stepProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
