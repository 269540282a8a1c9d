//go:build !windows

package cmd

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processRunning probes pid with the null signal.
func processRunning(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func terminateProcess(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}
