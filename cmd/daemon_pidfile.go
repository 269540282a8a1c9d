package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func pidFilePath() string {
	return filepath.Join(os.TempDir(), "chimed.pid")
}

// writePidFile claims the single-daemon lock. Refuses when another live
// daemon holds it; a stale file from a dead daemon is taken over.
func writePidFile() error {
	if pid, err := readPidFile(); err == nil && processRunning(pid) {
		return fmt.Errorf("chimed already running with pid %d", pid)
	}
	return os.WriteFile(pidFilePath(), []byte(strconv.Itoa(os.Getpid())), 0644)
}

func readPidFile() (int, error) {
	raw, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(raw)))
}

func removePidFile() {
	_ = os.Remove(pidFilePath())
}
