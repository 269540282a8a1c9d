package chimelib

import (
	"fmt"
	"log"
	"time"
)

// WakeParams is the serializable bundle a wake carries: everything a ring
// needs when it fires on a cold-started process, before the persisted store
// has been consulted.
type WakeParams struct {
	AudioAssetRef     string  `json:"audio_asset_ref"`
	LoopAudio         bool    `json:"loop_audio"`
	Vibrate           bool    `json:"vibrate"`
	VolumeMax         bool    `json:"volume_max"`
	FadeDuration      float64 `json:"fade_duration"`
	NotificationTitle string  `json:"notification_title,omitempty"`
	NotificationBody  string  `json:"notification_body,omitempty"`
	FullScreenIntent  bool    `json:"full_screen_intent"`
}

// WakeParams extracts the wake bundle from the settings.
func (s *AlarmSettings) WakeParams() WakeParams {
	return WakeParams{
		AudioAssetRef:     s.AudioAssetRef,
		LoopAudio:         s.LoopAudio,
		Vibrate:           s.Vibrate,
		VolumeMax:         s.VolumeMax,
		FadeDuration:      s.FadeDuration,
		NotificationTitle: s.NotificationTitle,
		NotificationBody:  s.NotificationBody,
		FullScreenIntent:  s.FullScreenIntent,
	}
}

// WakeEvent is one scheduled wake handed to an ExactWaker.
type WakeEvent struct {
	AlarmId   int
	TriggerAt time.Time
	CronExpr  string
	Params    WakeParams
}

// ExactWaker schedules precise wakes. Implemented by the daemon's timer.
type ExactWaker interface {
	Schedule(ev WakeEvent) error
	Cancel(id int)
}

// RingFunc fires a ring for an alarm id with its wake bundle.
type RingFunc func(id int, p WakeParams)

// ArmStrategy is how an armed alarm eventually fires. The exact-wake strategy
// uses a precise timer; the polling strategy watches the clock from the
// foreground. Selection is by host capability, never hardcoded.
type ArmStrategy interface {
	Name() string
	Arm(s *AlarmSettings) error
	Disarm(id int)
	Armed(id int) bool
}

// Capabilities describes what the host offers for waking alarms.
type Capabilities struct {
	// ExactWake is true when a precise timer is available.
	ExactWake bool
}

// StrategyOpts carries the collaborators shared by both strategies.
type StrategyOpts struct {
	Logger    *log.Logger
	Lifecycle LifecycleObserver

	// Prober resolves the live playback prober for an alarm id, when a ring
	// session exists. Used by the polling strategy's foreground-resume probe.
	Prober func(id int) PositionProber

	// Poll and ProbeDelay tune the polling strategy, for tests.
	Poll       time.Duration
	ProbeDelay time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewArmStrategy picks the strategy the host capabilities allow.
func NewArmStrategy(caps Capabilities, waker ExactWaker, fire RingFunc, opts *StrategyOpts) ArmStrategy {
	if caps.ExactWake && waker != nil {
		return NewExactWakeStrategy(waker, fire, opts)
	}
	return NewForegroundPollStrategy(fire, opts)
}

// immediateFireWindow: a wake this close (or already past) fires right away
// instead of being scheduled.
const immediateFireWindow = time.Second

// ExactWakeStrategy arms alarms on a precise timer. Wakes within one second
// fire immediately.
type ExactWakeStrategy struct {
	waker ExactWaker
	fire  RingFunc
	log   *log.Logger
	now   func() time.Time
	armed VMap[int, struct{}]
}

func NewExactWakeStrategy(waker ExactWaker, fire RingFunc, opts *StrategyOpts) *ExactWakeStrategy {
	if opts == nil {
		opts = &StrategyOpts{}
	}
	st := &ExactWakeStrategy{
		waker: waker,
		fire:  fire,
		log:   opts.Logger,
		now:   opts.Now,
		armed: NewVMap[int, struct{}](),
	}
	if st.now == nil {
		st.now = time.Now
	}
	return st
}

func (st *ExactWakeStrategy) Name() string { return "exact-wake" }

func (st *ExactWakeStrategy) Arm(s *AlarmSettings) error {
	params := s.WakeParams()
	delay := s.TargetTime.Sub(st.now())
	if delay <= immediateFireWindow {
		st.armed.Set(s.Id, struct{}{})
		id := s.Id
		safeGo(st.log, nil, "strategy.fire", nil, func() {
			st.fire(id, params)
		})
		return nil
	}
	err := st.waker.Schedule(WakeEvent{
		AlarmId:   s.Id,
		TriggerAt: s.TargetTime,
		CronExpr:  s.CronExpr,
		Params:    params,
	})
	if err != nil {
		return fmt.Errorf("%w: alarm %d: %v", ErrScheduling, s.Id, err)
	}
	st.armed.Set(s.Id, struct{}{})
	return nil
}

func (st *ExactWakeStrategy) Disarm(id int) {
	st.waker.Cancel(id)
	st.armed.Delete(id)
}

func (st *ExactWakeStrategy) Armed(id int) bool {
	_, ok := st.armed.GetOk(id)
	return ok
}

// ForegroundPollStrategy arms alarms on per-alarm watchdogs. The fallback for
// hosts without a precise timer.
type ForegroundPollStrategy struct {
	fire RingFunc
	opts *StrategyOpts
	dogs VMap[int, *ForegroundWatchdog]
}

func NewForegroundPollStrategy(fire RingFunc, opts *StrategyOpts) *ForegroundPollStrategy {
	if opts == nil {
		opts = &StrategyOpts{}
	}
	return &ForegroundPollStrategy{
		fire: fire,
		opts: opts,
		dogs: NewVMap[int, *ForegroundWatchdog](),
	}
}

func (st *ForegroundPollStrategy) Name() string { return "foreground-poll" }

func (st *ForegroundPollStrategy) Arm(s *AlarmSettings) error {
	if old, ok := st.dogs.GetOk(s.Id); ok {
		old.Stop()
	}
	id, params := s.Id, s.WakeParams()
	var prober PositionProber
	if st.opts.Prober != nil {
		prober = proberFunc(func() (time.Duration, error) {
			if p := st.opts.Prober(id); p != nil {
				return p.CurrentPosition()
			}
			return 0, nil
		})
	}
	wd := NewForegroundWatchdog(s.TargetTime, func() {
		st.fire(id, params)
	}, &WatchdogOpts{
		Poll:       st.opts.Poll,
		ProbeDelay: st.opts.ProbeDelay,
		Lifecycle:  st.opts.Lifecycle,
		Prober:     prober,
		Logger:     st.opts.Logger,
		Now:        st.opts.Now,
	})
	st.dogs.Set(id, wd)
	wd.Start()
	return nil
}

func (st *ForegroundPollStrategy) Disarm(id int) {
	if wd, ok := st.dogs.GetOk(id); ok {
		wd.Stop()
		st.dogs.Delete(id)
	}
}

func (st *ForegroundPollStrategy) Armed(id int) bool {
	_, ok := st.dogs.GetOk(id)
	return ok
}

// proberFunc adapts a closure to PositionProber.
type proberFunc func() (time.Duration, error)

func (f proberFunc) CurrentPosition() (time.Duration, error) { return f() }
