// Package channel is the in-process message fabric between the ringing
// background context and whatever foreground context is observing it. Ports
// are looked up by name; sends are best-effort and never block the ringer.
package channel

import (
	"fmt"
	"log"
	"sync"
)

// portBuffer is how many undelivered messages a port holds before further
// sends are dropped.
const portBuffer = 16

// RingPortName is the name the ringing side of alarm id publishes its
// messages under.
func RingPortName(id int) string {
	return fmt.Sprintf("alarm-ring-%d", id)
}

// ControlPortName is the name the ringing side of alarm id listens for
// control messages on.
func ControlPortName(id int) string {
	return fmt.Sprintf("alarm-control-%d", id)
}

// Port is one named, single-consumer endpoint. Messages arrive in the order
// they were sent.
type Port struct {
	name string
	ch   chan string

	mu     sync.Mutex
	closed bool
}

// Name returns the port's registered name.
func (p *Port) Name() string { return p.name }

// Recv returns the receive side of the port. The channel is closed when the
// port is deregistered or replaced.
func (p *Port) Recv() <-chan string { return p.ch }

func (p *Port) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}

// send delivers without blocking. Reports whether the message was queued.
func (p *Port) send(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.ch <- msg:
		return true
	default:
		return false
	}
}

// Registry maps names to live ports. Registering a name that is already
// taken replaces the stale port: restarted contexts re-register under the
// same name and the old endpoint dies.
type Registry struct {
	log *log.Logger

	mu    sync.RWMutex
	ports map[string]*Port
}

// NewRegistry builds an empty registry. The logger may be nil.
func NewRegistry(l *log.Logger) *Registry {
	return &Registry{
		log:   l,
		ports: make(map[string]*Port),
	}
}

// Register claims name and returns its port. A previous port under the same
// name is closed and replaced.
func (r *Registry) Register(name string) *Port {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.ports[name]; ok {
		old.close()
		if r.log != nil {
			r.log.Printf("channel: replacing stale port %q", name)
		}
	}
	p := &Port{
		name: name,
		ch:   make(chan string, portBuffer),
	}
	r.ports[name] = p
	return p
}

// Deregister removes name if port still owns it. Safe to call with a port
// that was already replaced.
func (r *Registry) Deregister(p *Port) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.ports[p.name]; ok && cur == p {
		delete(r.ports, p.name)
	}
	p.close()
}

// Send delivers msg to the port registered under name. Best-effort: a
// missing port or a full buffer drops the message, and the ringer never
// learns the difference.
func (r *Registry) Send(name, msg string) bool {
	r.mu.RLock()
	p, ok := r.ports[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	delivered := p.send(msg)
	if !delivered && r.log != nil {
		r.log.Printf("channel: dropped %q for %q", msg, name)
	}
	return delivered
}

// Lookup returns the port registered under name, or nil.
func (r *Registry) Lookup(name string) *Port {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ports[name]
}
