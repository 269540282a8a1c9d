package server

import (
	"sync"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/logger"
)

// AllAlarms subscribes a listener to every alarm's events.
const AllAlarms = 0

// Pool tracks which client connections are attached to which alarms, and
// broadcasts ring events to them. Broadcasts are best-effort: a dead
// connection is dropped, never retried.
type Pool struct {
	log logger.Logger

	mu        sync.RWMutex
	listeners map[int][]*SyncConn
}

// NewPool builds an empty pool.
func NewPool(l logger.Logger) *Pool {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Pool{
		log:       l,
		listeners: make(map[int][]*SyncConn),
	}
}

// Subscribe attaches sconn to alarm id's events. Use AllAlarms for all.
func (p *Pool) Subscribe(id int, sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.listeners[id] {
		if c == sconn {
			return
		}
	}
	p.listeners[id] = append(p.listeners[id], sconn)
}

// Unsubscribe detaches sconn from everything.
func (p *Pool) Unsubscribe(sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, conns := range p.listeners {
		kept := conns[:0]
		for _, c := range conns {
			if c != sconn {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(p.listeners, id)
			continue
		}
		p.listeners[id] = kept
	}
}

// Broadcast pushes an update to every listener of alarm id, plus the
// listeners attached to all alarms. Failed writes drop the listener.
func (p *Pool) Broadcast(id int, t common.UpdateType, v any) {
	p.mu.RLock()
	targets := make([]*SyncConn, 0, len(p.listeners[id])+len(p.listeners[AllAlarms]))
	targets = append(targets, p.listeners[id]...)
	if id != AllAlarms {
		targets = append(targets, p.listeners[AllAlarms]...)
	}
	p.mu.RUnlock()

	for _, sconn := range targets {
		if err := sconn.Send(t, v); err != nil {
			p.log.Warning("pool: dropping listener of alarm %d: %v", id, err)
			p.Unsubscribe(sconn)
			_ = sconn.Close()
		}
	}
}

// HasListeners reports whether anyone is attached to alarm id.
func (p *Pool) HasListeners(id int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners[id]) > 0 || len(p.listeners[AllAlarms]) > 0
}
