package chimelib

import (
	"context"
	"log"
	"time"
)

const (
	// watchdogPoll is how often the watchdog compares the clock against the
	// target while the observing context is on screen.
	watchdogPoll = 500 * time.Millisecond

	// probeDelay separates the two position reads of a ringing probe.
	probeDelay = 100 * time.Millisecond
)

// PositionProber reports a playback position. Engine satisfies it.
type PositionProber interface {
	CurrentPosition() (time.Duration, error)
}

// CheckIfRinging probes whether audio is audibly playing: two position reads
// separated by delay, strictly increasing means ringing. A paused or disposed
// engine reports the same position twice and reads as silent.
func CheckIfRinging(p PositionProber, delay time.Duration) (bool, error) {
	if p == nil {
		return false, nil
	}
	p1, err := p.CurrentPosition()
	if err != nil {
		return false, err
	}
	time.Sleep(delay)
	p2, err := p.CurrentPosition()
	if err != nil {
		return false, err
	}
	return p2 > p1, nil
}

// WatchdogOpts tunes a ForegroundWatchdog. Zero durations fall back to the
// defaults; a nil lifecycle means the context is always on screen.
type WatchdogOpts struct {
	Poll       time.Duration
	ProbeDelay time.Duration
	Lifecycle  LifecycleObserver

	// Prober, when set, lets a foreground resume detect a ring that started
	// while the context was off screen.
	Prober PositionProber

	Logger *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// ForegroundWatchdog fires an alarm without an exact-wake primitive: it polls
// the clock every half second while the observing context is on screen,
// suspends while off screen, and probes for an already-running ring when the
// context comes back.
type ForegroundWatchdog struct {
	target time.Time
	onRing func()

	poll      time.Duration
	probe     time.Duration
	lifecycle LifecycleObserver
	prober    PositionProber
	log       *log.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewForegroundWatchdog builds a watchdog for one target moment. onRing is
// called at most once.
func NewForegroundWatchdog(target time.Time, onRing func(), opts *WatchdogOpts) *ForegroundWatchdog {
	if opts == nil {
		opts = &WatchdogOpts{}
	}
	wd := &ForegroundWatchdog{
		target:    target,
		onRing:    onRing,
		poll:      opts.Poll,
		probe:     opts.ProbeDelay,
		lifecycle: opts.Lifecycle,
		prober:    opts.Prober,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if wd.poll <= 0 {
		wd.poll = watchdogPoll
	}
	if wd.probe <= 0 {
		wd.probe = probeDelay
	}
	if wd.now == nil {
		wd.now = time.Now
	}
	wd.ctx, wd.cancel = context.WithCancel(context.Background())
	return wd
}

// Start begins watching in a background goroutine.
func (wd *ForegroundWatchdog) Start() {
	safeGo(wd.log, nil, "watchdog", nil, wd.run)
}

// Stop halts the watchdog. Idempotent.
func (wd *ForegroundWatchdog) Stop() {
	wd.cancel()
}

func (wd *ForegroundWatchdog) run() {
	var events <-chan LifecycleState
	if wd.lifecycle != nil {
		events = wd.lifecycle.Events()
	}
	ticker := time.NewTicker(wd.poll)
	defer ticker.Stop()

	foreground := true
	for {
		select {
		case <-wd.ctx.Done():
			return
		case st, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch st {
			case Background:
				foreground = false
			case Foreground:
				if foreground {
					continue
				}
				foreground = true
				// The target may have passed while off screen and the ring
				// may already be running elsewhere. Probe before firing a
				// duplicate.
				ringing, err := CheckIfRinging(wd.prober, wd.probe)
				if err != nil && wd.log != nil {
					wd.log.Printf("watchdog: ringing probe: %v", err)
				}
				if ringing {
					wd.cancel()
					return
				}
			}
		case <-ticker.C:
			if !foreground {
				continue
			}
			if !wd.now().Before(wd.target) {
				wd.cancel()
				wd.onRing()
				return
			}
		}
	}
}
