package chimelib

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"
)

// KillWarningID is the reserved notification id of the standing warning shown
// while an alarm with notify-on-kill is live.
const KillWarningID = -1

const (
	defaultKillWarningTitle = "Alarms may not ring"
	defaultKillWarningBody  = "Stopping the alarm service silences your alarms."
)

// RingFactory builds the controller that will drive one ring session. The
// caller wires in the engine and channel endpoints.
type RingFactory func(s *AlarmSettings) *RingController

// AlarmRegistry is the single entry point for alarm lifecycle: it validates,
// persists, arms, fires, stops and reconciles. All live state hangs off it;
// nothing alarm-shaped lives in package globals.
type AlarmRegistry struct {
	log      *log.Logger
	manager  *Manager
	kv       *KV
	notifier Notifier
	strategy ArmStrategy
	factory  RingFactory
	now      func() time.Time

	// mu serializes registry operations; sessions has its own lock for the
	// read-only paths.
	mu       sync.Mutex
	sessions VMap[int, *RingController]
}

// RegistryOpts carries the optional collaborators of an AlarmRegistry.
type RegistryOpts struct {
	Logger   *log.Logger
	KV       *KV
	Notifier Notifier
	Now      func() time.Time
}

// NewAlarmRegistry builds a registry over the persistent store. The strategy
// decides how armed alarms fire; the factory builds ring controllers.
func NewAlarmRegistry(m *Manager, strategy ArmStrategy, factory RingFactory, opts *RegistryOpts) *AlarmRegistry {
	if opts == nil {
		opts = &RegistryOpts{}
	}
	r := &AlarmRegistry{
		log:      opts.Logger,
		manager:  m,
		kv:       opts.KV,
		notifier: opts.Notifier,
		strategy: strategy,
		factory:  factory,
		now:      opts.Now,
		sessions: NewVMap[int, *RingController](),
	}
	if r.notifier == nil {
		r.notifier = NopNotifier{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// SetAlarm validates, persists and arms one alarm. Any live alarm colliding
// with it (same id, or same date-hour-minute) is stopped first. Notification
// permission is requested best-effort; a refusal never fails the set.
func (r *AlarmRegistry) SetAlarm(s *AlarmSettings) error {
	if filepath.Ext(s.AudioAssetRef) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAssetReference, s.AudioAssetRef)
	}
	if s.RepeatWeekly && (s.DayOfWeek < 1 || s.DayOfWeek > 7) {
		return fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, s.DayOfWeek)
	}
	s.TargetTime = TruncateToMinute(s.TargetTime)
	if s.FadeDuration < 0 {
		s.FadeDuration = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, live := range r.manager.GetAll() {
		if live.Id != s.Id && live.CollidesWith(s) {
			r.logf("alarm %d collides with new alarm %d, stopping it", live.Id, s.Id)
			r.dropAlarm(live.Id)
		}
	}
	r.dropSession(s.Id)
	r.strategy.Disarm(s.Id)

	if err := r.manager.Put(s); err != nil {
		return err
	}
	if err := r.notifier.RequestPermission(); err != nil {
		r.logf("alarm %d: %v: %v", s.Id, ErrPlatformBridge, err)
	}
	if err := r.strategy.Arm(s); err != nil {
		return err
	}
	r.refreshKillWarning()
	return nil
}

// HandleWake fires the ring for an alarm id. The settings come from the
// store when present; otherwise they are rebuilt from the wake bundle, so a
// cold-started process can still ring. Firing an already-live session is a
// no-op.
func (r *AlarmRegistry) HandleWake(id int, p WakeParams) {
	r.mu.Lock()
	if _, ok := r.sessions.GetOk(id); ok {
		r.mu.Unlock()
		return
	}
	s := r.manager.Get(id)
	if s == nil {
		s = settingsFromWake(id, p)
	}
	ctrl := r.factory(s)
	r.sessions.Set(id, ctrl)
	r.mu.Unlock()

	safeGo(r.log, nil, "registry.ring", nil, func() {
		if err := ctrl.Ring(); err != nil {
			r.logf("alarm %d: %v", id, err)
			r.mu.Lock()
			r.sessions.Delete(id)
			r.mu.Unlock()
		}
	})
}

// Stop stops a ringing alarm and settles its persisted record: a repeating
// alarm is replaced by its next occurrence and re-armed, a stalled alarm is
// deleted, a future alarm is left armed. Returns whether the record was
// deleted.
func (r *AlarmRegistry) Stop(id int) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hadSession := r.dropSession(id)
	s := r.manager.Get(id)
	if s == nil {
		if !hadSession {
			return false, fmt.Errorf("%w: id %d", ErrAlarmNotFound, id)
		}
		r.refreshKillWarning()
		return false, nil
	}

	switch {
	case s.Repeats():
		r.strategy.Disarm(id)
		repl, rerr := ScheduleNextRepeat(s, r.now())
		if rerr != nil {
			return false, rerr
		}
		if perr := r.manager.Put(repl); perr != nil {
			return false, perr
		}
		if aerr := r.strategy.Arm(repl); aerr != nil {
			return false, aerr
		}
	case s.Stalled(r.now()):
		r.strategy.Disarm(id)
		if _, derr := r.manager.Delete(id); derr != nil {
			return false, derr
		}
		deleted = true
	default:
		// Future one-shot: nothing rang, nothing to settle. Stays armed.
	}
	r.refreshKillWarning()
	return deleted, nil
}

// Cancel disarms and deletes an alarm outright, ringing or not.
func (r *AlarmRegistry) Cancel(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manager.Get(id) == nil {
		if !r.dropSession(id) {
			return fmt.Errorf("%w: id %d", ErrAlarmNotFound, id)
		}
		r.refreshKillWarning()
		return nil
	}
	r.dropAlarm(id)
	r.refreshKillWarning()
	return nil
}

// StopAll stops every ring and deletes every alarm. Returns how many alarms
// were dropped.
func (r *AlarmRegistry) StopAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.manager.GetAll() {
		r.dropAlarm(s.Id)
		n++
	}
	// Sessions firing for ids the store no longer knows.
	var orphans []int
	r.sessions.Range(func(id int, _ *RingController) bool {
		orphans = append(orphans, id)
		return true
	})
	for _, id := range orphans {
		r.dropSession(id)
		r.strategy.Disarm(id)
		n++
	}
	r.refreshKillWarning()
	return n, nil
}

// Snooze stops the ring for id and re-arms it after delay. The snoozed
// target keeps its seconds; only alarms set for a calendar moment are
// minute-truncated.
func (r *AlarmRegistry) Snooze(id int, delay time.Duration) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.manager.Get(id)
	if s == nil {
		return time.Time{}, fmt.Errorf("%w: id %d", ErrAlarmNotFound, id)
	}
	r.dropSession(id)
	r.strategy.Disarm(id)

	repl := *s
	repl.TargetTime = r.now().Add(delay)
	if err := r.manager.Put(&repl); err != nil {
		return time.Time{}, err
	}
	if err := r.strategy.Arm(&repl); err != nil {
		return time.Time{}, err
	}
	return repl.TargetTime, nil
}

// ReconcileOnStartup brings the store and the live state back in line after
// a restart: future alarms are re-armed, past repeating alarms get their next
// occurrence, stalled one-shots are deleted.
func (r *AlarmRegistry) ReconcileOnStartup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, s := range r.manager.GetAll() {
		switch {
		case !s.TargetTime.Before(now):
			if err := r.strategy.Arm(s); err != nil {
				r.logf("reconcile: alarm %d: %v", s.Id, err)
			}
		case s.Repeats():
			repl, err := ScheduleNextRepeat(s, now)
			if err != nil {
				r.logf("reconcile: alarm %d: %v", s.Id, err)
				continue
			}
			if err := r.manager.Put(repl); err != nil {
				return err
			}
			if err := r.strategy.Arm(repl); err != nil {
				r.logf("reconcile: alarm %d: %v", s.Id, err)
			}
		default:
			r.logf("reconcile: alarm %d stalled at %s, deleting", s.Id, s.TargetTime)
			if _, err := r.manager.Delete(s.Id); err != nil {
				return err
			}
		}
	}
	r.refreshKillWarning()
	return nil
}

// IsRinging reports whether the alarm currently has a ringing session.
func (r *AlarmRegistry) IsRinging(id int) bool {
	ctrl, ok := r.sessions.GetOk(id)
	return ok && ctrl.State() == StateRinging
}

// RingingIds returns the ids of all ringing sessions.
func (r *AlarmRegistry) RingingIds() []int {
	var ids []int
	r.sessions.Range(func(id int, ctrl *RingController) bool {
		if ctrl.State() == StateRinging {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Session returns the live controller for id, or nil.
func (r *AlarmRegistry) Session(id int) *RingController {
	ctrl, _ := r.sessions.GetOk(id)
	return ctrl
}

// Get returns the persisted settings for id.
func (r *AlarmRegistry) Get(id int) (*AlarmSettings, error) {
	s := r.manager.Get(id)
	if s == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAlarmNotFound, id)
	}
	return s, nil
}

// List returns all persisted alarms, stalled ones included only on request.
func (r *AlarmRegistry) List(includeStalled bool) []*AlarmSettings {
	all := r.manager.GetAll()
	if includeStalled {
		return all
	}
	now := r.now()
	out := all[:0]
	for _, s := range all {
		if s.Stalled(now) && !r.IsRinging(s.Id) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// dropSession stops and forgets the live session for id, if any. Callers
// hold mu.
func (r *AlarmRegistry) dropSession(id int) bool {
	ctrl, ok := r.sessions.GetOk(id)
	if !ok {
		return false
	}
	if err := ctrl.Stop(); err != nil {
		r.logf("alarm %d: stopping session: %v", id, err)
	}
	r.sessions.Delete(id)
	return true
}

// dropAlarm fully removes one alarm: session, schedule and record. Callers
// hold mu.
func (r *AlarmRegistry) dropAlarm(id int) {
	r.dropSession(id)
	r.strategy.Disarm(id)
	if _, err := r.manager.Delete(id); err != nil {
		r.logf("alarm %d: deleting: %v", id, err)
	}
}

// refreshKillWarning shows or clears the standing warning that killing the
// daemon silences alarms. Shown while at least one live alarm asks for it.
// Callers hold mu.
func (r *AlarmRegistry) refreshKillWarning() {
	want := false
	for _, s := range r.manager.GetAll() {
		if s.NotifyOnKill {
			want = true
			break
		}
	}
	if !want {
		if err := r.notifier.Cancel(KillWarningID); err != nil {
			r.logf("clearing kill warning: %v", err)
		}
		return
	}
	title, body := r.killWarningStrings()
	if err := r.notifier.Show(KillWarningID, title, body, false); err != nil {
		r.logf("showing kill warning: %v", err)
	}
}

func (r *AlarmRegistry) killWarningStrings() (title, body string) {
	title, body = defaultKillWarningTitle, defaultKillWarningBody
	if r.kv != nil {
		if v, ok, _ := r.kv.Get(KeyNotifyOnKillTitle); ok {
			title = v
		}
		if v, ok, _ := r.kv.Get(KeyNotifyOnKillBody); ok {
			body = v
		}
	}
	if first := r.manager.First(r.now()); first != nil {
		body = fmt.Sprintf("%s Next alarm at %s.", body, first.TargetTime.Format("Mon 15:04"))
	}
	return title, body
}

func settingsFromWake(id int, p WakeParams) *AlarmSettings {
	return &AlarmSettings{
		Id:                id,
		AudioAssetRef:     p.AudioAssetRef,
		LoopAudio:         p.LoopAudio,
		Vibrate:           p.Vibrate,
		VolumeMax:         p.VolumeMax,
		FadeDuration:      p.FadeDuration,
		NotificationTitle: p.NotificationTitle,
		NotificationBody:  p.NotificationBody,
		FullScreenIntent:  p.FullScreenIntent,
	}
}

func (r *AlarmRegistry) logf(format string, args ...any) {
	if r.log != nil {
		r.log.Printf(format, args...)
	}
}
