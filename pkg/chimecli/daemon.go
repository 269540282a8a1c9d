package chimecli

import (
	"errors"
	"net"
	"os"
	"os/exec"
	"time"
)

const (
	spawnRetries  = 20
	spawnInterval = 250 * time.Millisecond
)

// spawnDaemon starts a detached daemon by re-executing this binary with the
// "daemon" argument, then waits for its socket to answer.
func spawnDaemon() (net.Conn, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(self, "daemon")
	cmd.SysProcAttr = detachedProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Let it live past this process.
	if err := cmd.Process.Release(); err != nil {
		return nil, err
	}
	for i := 0; i < spawnRetries; i++ {
		time.Sleep(spawnInterval)
		conn, derr := dial()
		if derr == nil {
			return conn, nil
		}
	}
	return nil, errors.New("daemon did not come up")
}
