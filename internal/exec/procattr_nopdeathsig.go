//go:build !linux && !freebsd

package exec

import "syscall"

// stepProcAttr returns nil, parent death signals are not supported on
// this platform.
func stepProcAttr() *syscall.SysProcAttr {
	return nil
}
