package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/logger"
)

// ringingMethod is the notification pushed to WebSocket clients on every
// ring milestone.
const ringingMethod = "alarm.ringing"

// RPCNotifier fans ring events out to the connected WebSocket JSON-RPC
// sessions. Push failures only drop the one session.
type RPCNotifier struct {
	log logger.Logger

	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
}

func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		log:     l,
		servers: make(map[*jrpc2.Server]struct{}),
	}
}

func (n *RPCNotifier) register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

func (n *RPCNotifier) unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// NotifyRinging pushes one ring milestone to every connected session.
func (n *RPCNotifier) NotifyRinging(ev common.RingingResponse) {
	n.mu.RLock()
	targets := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		targets = append(targets, srv)
	}
	n.mu.RUnlock()

	for _, srv := range targets {
		if err := srv.Notify(context.Background(), ringingMethod, ev); err != nil {
			n.log.Warning("web: push to session failed: %v", err)
		}
	}
}

// Sessions returns how many push sessions are connected.
func (n *RPCNotifier) Sessions() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}
