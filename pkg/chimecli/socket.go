package chimecli

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/chimed/chime/common"
)

const dialTimeout = 2 * time.Second

// SocketPath mirrors the daemon's socket location.
func SocketPath() string {
	if p := os.Getenv(common.SocketPathEnv); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "chimed.sock")
}

func tcpAddr() string {
	port := os.Getenv(common.TCPPortEnv)
	if port == "" {
		port = fmt.Sprint(common.DefaultTCPPort)
	}
	return net.JoinHostPort(common.TCPHost, port)
}

// dial connects to the daemon, preferring the unix socket.
func dial() (net.Conn, error) {
	if os.Getenv(common.ForceTCPEnv) == "" {
		conn, err := net.DialTimeout("unix", SocketPath(), dialTimeout)
		if err == nil {
			return conn, nil
		}
	}
	return net.DialTimeout("tcp", tcpAddr(), dialTimeout)
}
