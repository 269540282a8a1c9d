// Package common provides shared types and constants used across the chime
// client-daemon communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for a custom socket path.
	SocketPathEnv = "CHIMED_SOCKET_PATH"

	// TCPPortEnv is the environment variable for a custom TCP port.
	TCPPortEnv = "CHIMED_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "CHIMED_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "CHIMED_DEBUG"

	// RPCSecretEnv is the environment variable holding the bearer token
	// for the JSON-RPC web surface. Empty disables the RPC endpoint.
	RPCSecretEnv = "CHIMED_RPC_SECRET"
)
