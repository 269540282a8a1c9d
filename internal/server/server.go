// Package server is the daemon's client-facing surface: a framed-JSON
// request/response protocol over a unix socket (TCP as a fallback), plus an
// optional HTTP/WebSocket JSON-RPC surface for remote observers.
package server

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/logger"
)

// Server accepts client connections and dispatches their requests to the
// registered handlers.
type Server struct {
	log      logger.Logger
	listener net.Listener
	handlers Handlers
	pool     *Pool
	closed   atomic.Bool
}

// NewServer listens on the unix socket, falling back to TCP when the socket
// cannot be bound or CHIMED_FORCE_TCP is set.
func NewServer(l logger.Logger) (*Server, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	s := &Server{
		log:      l,
		handlers: make(Handlers),
		pool:     NewPool(l),
	}
	if os.Getenv(common.ForceTCPEnv) == "" {
		ln, err := listenUnix(SocketPath())
		if err == nil {
			s.listener = ln
			l.Info("server: listening on %s", SocketPath())
			return s, nil
		}
		l.Warning("server: unix socket unavailable, falling back to tcp: %v", err)
	}
	port := os.Getenv(common.TCPPortEnv)
	if port == "" {
		port = fmt.Sprint(common.DefaultTCPPort)
	}
	addr := net.JoinHostPort(common.TCPHost, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.listener = ln
	l.Info("server: listening on %s", addr)
	return s, nil
}

func listenUnix(path string) (net.Listener, error) {
	// A previous daemon may have died without cleanup. If nobody answers on
	// the socket, the file is stale.
	if _, err := os.Stat(path); err == nil {
		conn, derr := net.Dial("unix", path)
		if derr == nil {
			_ = conn.Close()
			return nil, fmt.Errorf("socket %s is in use", path)
		}
		_ = os.Remove(path)
	}
	return net.Listen("unix", path)
}

// RegisterHandler installs the handler for one request method.
func (s *Server) RegisterHandler(method common.UpdateType, h HandlerFunc) {
	s.handlers[method] = h
}

// Pool returns the broadcast pool, for pushing events from outside a
// request.
func (s *Server) Pool() *Pool {
	return s.pool
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start runs the accept loop until Shutdown.
func (s *Server) Start() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			s.log.Error("server: accept: %v", err)
			continue
		}
		go s.serveConn(newSyncConn(conn))
	}
}

func (s *Server) serveConn(sconn *SyncConn) {
	defer func() {
		s.pool.Unsubscribe(sconn)
		_ = sconn.Close()
	}()
	for {
		body, err := sconn.read()
		if err != nil {
			return
		}
		req, err := parseRequest(body)
		if err != nil {
			_ = sconn.SendError(err)
			continue
		}
		h, ok := s.handlers[req.Method]
		if !ok {
			_ = sconn.SendError(fmt.Errorf("%w: %q", ErrHandlerNotFound, req.Method))
			continue
		}
		t, v, err := h(sconn, s.pool, req.Message)
		if err != nil {
			s.log.Warning("server: %s: %v", req.Method, err)
			_ = sconn.SendError(err)
			continue
		}
		if err := sconn.Send(t, v); err != nil {
			return
		}
	}
}

// Shutdown closes the listener; in-flight connections finish their current
// request.
func (s *Server) Shutdown() error {
	s.closed.Store(true)
	err := s.listener.Close()
	if s.listener.Addr().Network() == "unix" {
		_ = os.Remove(s.listener.Addr().String())
	}
	return err
}
