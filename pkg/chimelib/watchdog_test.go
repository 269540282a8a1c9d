package chimelib

import (
	"sync/atomic"
	"testing"
	"time"
)

// stepProber returns a fixed sequence of positions.
type stepProber struct {
	positions []time.Duration
	idx       atomic.Int32
}

func (p *stepProber) CurrentPosition() (time.Duration, error) {
	i := int(p.idx.Add(1)) - 1
	if i >= len(p.positions) {
		i = len(p.positions) - 1
	}
	return p.positions[i], nil
}

func TestCheckIfRingingDetectsAdvance(t *testing.T) {
	ringing, err := CheckIfRinging(&stepProber{
		positions: []time.Duration{100 * time.Millisecond, 150 * time.Millisecond},
	}, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !ringing {
		t.Fatal("advancing position must read as ringing")
	}
}

func TestCheckIfRingingFrozenPositionIsSilent(t *testing.T) {
	ringing, err := CheckIfRinging(&stepProber{
		positions: []time.Duration{200 * time.Millisecond, 200 * time.Millisecond},
	}, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ringing {
		t.Fatal("frozen position must read as silent")
	}
}

func TestCheckIfRingingNilProber(t *testing.T) {
	ringing, err := CheckIfRinging(nil, time.Millisecond)
	if err != nil || ringing {
		t.Fatalf("nil prober: ringing=%v err=%v", ringing, err)
	}
}

// chanLifecycle drives lifecycle transitions from a test.
type chanLifecycle struct {
	ch chan LifecycleState
}

func (c *chanLifecycle) Events() <-chan LifecycleState { return c.ch }

func TestWatchdogFiresWhenTargetPasses(t *testing.T) {
	fired := make(chan struct{})
	wd := NewForegroundWatchdog(time.Now().Add(30*time.Millisecond), func() {
		close(fired)
	}, &WatchdogOpts{Poll: 5 * time.Millisecond})
	wd.Start()
	defer wd.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("watchdog never fired")
	}
}

func TestWatchdogFiresAtMostOnce(t *testing.T) {
	var fires atomic.Int32
	wd := NewForegroundWatchdog(time.Now().Add(-time.Second), func() {
		fires.Add(1)
	}, &WatchdogOpts{Poll: 5 * time.Millisecond})
	wd.Start()
	time.Sleep(100 * time.Millisecond)
	wd.Stop()
	if n := fires.Load(); n != 1 {
		t.Fatalf("fired %d times", n)
	}
}

func TestWatchdogSuspendsInBackground(t *testing.T) {
	lc := &chanLifecycle{ch: make(chan LifecycleState)}
	var fires atomic.Int32
	wd := NewForegroundWatchdog(time.Now().Add(20*time.Millisecond), func() {
		fires.Add(1)
	}, &WatchdogOpts{Poll: 5 * time.Millisecond, Lifecycle: lc})
	wd.Start()
	defer wd.Stop()

	lc.ch <- Background
	time.Sleep(100 * time.Millisecond)
	if n := fires.Load(); n != 0 {
		t.Fatalf("fired %d times while backgrounded", n)
	}

	lc.ch <- Foreground
	if !waitFor(time.Second, func() bool { return fires.Load() == 1 }) {
		t.Fatal("watchdog never fired after resuming")
	}
}

func TestWatchdogResumeProbeSkipsRunningRing(t *testing.T) {
	// On resume the ring is already audible elsewhere; the watchdog must
	// stand down instead of firing a duplicate.
	lc := &chanLifecycle{ch: make(chan LifecycleState)}
	eng := &fakeEngine{playing: true}
	var fires atomic.Int32
	wd := NewForegroundWatchdog(time.Now().Add(10*time.Millisecond), func() {
		fires.Add(1)
	}, &WatchdogOpts{
		Poll:       5 * time.Millisecond,
		ProbeDelay: time.Millisecond,
		Lifecycle:  lc,
		Prober:     eng,
	})
	wd.Start()
	defer wd.Stop()

	lc.ch <- Background
	time.Sleep(50 * time.Millisecond) // target passes off screen
	lc.ch <- Foreground
	time.Sleep(100 * time.Millisecond)
	if n := fires.Load(); n != 0 {
		t.Fatalf("fired %d times despite audible ring", n)
	}
}
