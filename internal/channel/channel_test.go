package channel

import (
	"testing"
	"time"
)

func TestSendDeliversInOrder(t *testing.T) {
	r := NewRegistry(nil)
	p := r.Register("alarm-ring-1")

	for _, msg := range []string{"ring", "vibrate-30", "stop"} {
		if !r.Send("alarm-ring-1", msg) {
			t.Fatalf("send %q failed", msg)
		}
	}
	for _, want := range []string{"ring", "vibrate-30", "stop"} {
		select {
		case got := <-p.Recv():
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %q never arrived", want)
		}
	}
}

func TestSendToMissingPortIsDropped(t *testing.T) {
	r := NewRegistry(nil)
	if r.Send("alarm-ring-7", "ring") {
		t.Fatal("send to missing port must report a drop")
	}
}

func TestSendToFullPortIsDropped(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("alarm-ring-1")

	for i := 0; i < portBuffer; i++ {
		if !r.Send("alarm-ring-1", "ring") {
			t.Fatalf("send %d failed before the buffer filled", i)
		}
	}
	if r.Send("alarm-ring-1", "ring") {
		t.Fatal("send past the buffer must be dropped, not block")
	}
}

func TestRegisterReplacesStalePort(t *testing.T) {
	r := NewRegistry(nil)
	old := r.Register("alarm-control-2")
	repl := r.Register("alarm-control-2")

	if _, ok := <-old.Recv(); ok {
		t.Fatal("stale port must be closed on replacement")
	}
	if !r.Send("alarm-control-2", "stop") {
		t.Fatal("replacement port must receive")
	}
	if got := <-repl.Recv(); got != "stop" {
		t.Fatalf("got %q", got)
	}
}

func TestDeregisterOnlyRemovesOwner(t *testing.T) {
	r := NewRegistry(nil)
	old := r.Register("alarm-ring-3")
	repl := r.Register("alarm-ring-3")

	// The stale endpoint deregistering must not take down its replacement.
	r.Deregister(old)
	if r.Lookup("alarm-ring-3") != repl {
		t.Fatal("replacement port must survive a stale deregister")
	}

	r.Deregister(repl)
	if r.Lookup("alarm-ring-3") != nil {
		t.Fatal("port must be gone after its owner deregisters")
	}
	if _, ok := <-repl.Recv(); ok {
		t.Fatal("deregistered port must be closed")
	}
}

func TestSendToClosedPortFails(t *testing.T) {
	r := NewRegistry(nil)
	p := r.Register("alarm-ring-4")
	r.Deregister(p)
	if r.Send("alarm-ring-4", "ring") {
		t.Fatal("send after deregister must fail")
	}
}

func TestPortNames(t *testing.T) {
	if got := RingPortName(12); got != "alarm-ring-12" {
		t.Fatalf("got %q", got)
	}
	if got := ControlPortName(12); got != "alarm-control-12" {
		t.Fatalf("got %q", got)
	}
}
