//go:build !windows

package chimecli

import "syscall"

// detachedProcAttr puts the spawned daemon in its own process group so a
// Ctrl-C on the client shell does not kill it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
