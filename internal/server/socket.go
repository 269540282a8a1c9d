package server

import (
	"os"
	"path/filepath"

	"github.com/chimed/chime/common"
)

// SocketPath returns the unix socket the daemon listens on. Overridable via
// the environment for tests and multi-user hosts.
func SocketPath() string {
	if p := os.Getenv(common.SocketPathEnv); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "chimed.sock")
}
