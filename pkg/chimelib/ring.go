package chimelib

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Messages exchanged with the observing context while ringing.
const (
	MsgRing = "ring"
	MsgStop = "stop"

	msgVibratePrefix = "vibrate-"
)

// VibrateMessage encodes the vibration bound announcement.
func VibrateMessage(bound time.Duration) string {
	return fmt.Sprintf("%s%d", msgVibratePrefix, int(bound.Seconds()))
}

const (
	// DefaultVibrationBound caps vibration when the audio duration gives no
	// natural bound (looping audio, unknown duration).
	DefaultVibrationBound = 30 * time.Second

	// fadeSteps is the number of volume levels visited during a fade,
	// 0.1 through 1.0.
	fadeSteps = 10

	fadeStartVolume = 0.1

	vibrationPulse = 500 * time.Millisecond
	vibrationIdle  = time.Second
)

// RingControllerOpts carries the collaborators of one ring. Nil fields
// degrade to no-ops.
type RingControllerOpts struct {
	Logger       *log.Logger
	Vibrator     Vibrator
	SystemVolume SystemVolume
	Notifier     Notifier

	// Send delivers a message to the observing context, best effort. The
	// ring never depends on delivery.
	Send func(msg string)

	// Control receives messages from the observing context; "stop" stops
	// the ring.
	Control <-chan string

	// OnEvent observes ring milestones. Called from the ring's goroutines.
	OnEvent func(ev RingEvent)

	// VibrationBound overrides DefaultVibrationBound when positive.
	VibrationBound time.Duration
}

// RingController drives the audible part of one alarm: start audio, ramp the
// volume, pulse the vibrator, and undo all of it on stop. Every side effect
// it starts is bounded or cancelled; none relies on a message arriving.
type RingController struct {
	session *RingSession
	state   atomic.Int32

	log    *log.Logger
	vib    Vibrator
	sysvol SystemVolume
	notif  Notifier

	send    func(string)
	control <-chan string
	onEvent func(RingEvent)
	vibMax  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	savedVol    float64
	hasSavedVol bool
}

// NewRingController builds a controller in the armed state.
func NewRingController(s *AlarmSettings, eng Engine, opts *RingControllerOpts) *RingController {
	if opts == nil {
		opts = &RingControllerOpts{}
	}
	rc := &RingController{
		session: &RingSession{Settings: s, Engine: eng},
		log:     opts.Logger,
		vib:     opts.Vibrator,
		sysvol:  opts.SystemVolume,
		notif:   opts.Notifier,
		send:    opts.Send,
		control: opts.Control,
		onEvent: opts.OnEvent,
		vibMax:  opts.VibrationBound,
	}
	if rc.vib == nil {
		rc.vib = NopVibrator{}
	}
	if rc.sysvol == nil {
		rc.sysvol = NewNopSystemVolume(0.5)
	}
	if rc.notif == nil {
		rc.notif = NopNotifier{}
	}
	if rc.vibMax <= 0 {
		rc.vibMax = DefaultVibrationBound
	}
	rc.ctx, rc.cancel = context.WithCancel(context.Background())
	return rc
}

// State returns the current lifecycle state.
func (rc *RingController) State() RingState {
	return RingState(rc.state.Load())
}

// Session returns the session this controller drives.
func (rc *RingController) Session() *RingSession {
	return rc.session
}

// Ring starts the alarm: loads the asset, starts playback (quiet if a fade is
// configured), announces "ring" to the observing context and spins up the
// fade, vibration and control tasks. A no-op if the controller was cancelled.
func (rc *RingController) Ring() error {
	if !rc.state.CompareAndSwap(int32(StateArmed), int32(StateRinging)) {
		return nil
	}
	s := rc.session.Settings
	eng := rc.session.Engine

	dur, err := eng.Load(s.AudioAssetRef)
	if err != nil {
		eng.ClearAssetCache()
		rc.state.Store(int32(StateStopped))
		rc.cancel()
		return fmt.Errorf("%w: %q: %v", ErrAssetLoad, s.AudioAssetRef, err)
	}
	eng.SetLoop(s.LoopAudio)

	if s.VolumeMax {
		if prev, verr := rc.sysvol.GetVolume(); verr == nil {
			rc.savedVol = prev
			rc.hasSavedVol = true
		} else {
			rc.logf("alarm %d: reading system volume: %v", s.Id, verr)
		}
		if verr := rc.sysvol.SetVolume(1.0); verr != nil {
			rc.logf("alarm %d: raising system volume: %v", s.Id, verr)
		}
	}

	startVol := 1.0
	if s.FadeDuration > 0 {
		startVol = fadeStartVolume
	}
	if verr := eng.SetVolume(startVol); verr != nil {
		rc.logf("alarm %d: setting volume: %v", s.Id, verr)
	}
	if perr := eng.Play(); perr != nil {
		rc.state.Store(int32(StateStopped))
		rc.cancel()
		return fmt.Errorf("%w: %q: %v", ErrAssetLoad, s.AudioAssetRef, perr)
	}
	rc.session.StartedAt = time.Now()

	rc.deliver(MsgRing)
	rc.emit(PhaseStarted, startVol)

	if s.NotificationEnabled() {
		if nerr := rc.notif.Show(s.Id, s.NotificationTitle, s.NotificationBody, s.FullScreenIntent); nerr != nil {
			rc.logf("alarm %d: showing notification: %v", s.Id, nerr)
		}
	}

	if s.FadeDuration > 0 {
		safeGo(rc.log, nil, "ring.fade", nil, func() { rc.fadeTask(s.FadeDur()) })
	}
	if s.Vibrate && rc.vib.HasVibrator() {
		bound := rc.vibrationBound(dur)
		rc.deliver(VibrateMessage(bound))
		rc.emit(PhaseVibrate, bound.Seconds())
		safeGo(rc.log, nil, "ring.vibrate", nil, func() { rc.vibrationTask(bound) })
	}
	if rc.control != nil {
		safeGo(rc.log, nil, "ring.control", nil, rc.controlTask)
	}
	return nil
}

// Stop halts a ringing alarm: audio off, vibration cancelled, system volume
// restored, notification cleared. Idempotent; stopping an alarm that never
// rang cancels it instead.
func (rc *RingController) Stop() error {
	if rc.state.CompareAndSwap(int32(StateArmed), int32(StateCancelled)) {
		rc.cancel()
		rc.emit(PhaseCancelled, 0)
		return nil
	}
	if !rc.state.CompareAndSwap(int32(StateRinging), int32(StateStopped)) {
		return nil
	}
	rc.cancel()
	s := rc.session.Settings
	eng := rc.session.Engine
	if err := eng.Stop(); err != nil {
		rc.logf("alarm %d: stopping audio: %v", s.Id, err)
	}
	if rc.hasSavedVol {
		if err := rc.sysvol.SetVolume(rc.savedVol); err != nil {
			rc.logf("alarm %d: restoring system volume: %v", s.Id, err)
		}
	}
	if err := eng.Dispose(); err != nil {
		rc.logf("alarm %d: disposing engine: %v", s.Id, err)
	}
	if err := rc.notif.Cancel(s.Id); err != nil {
		rc.logf("alarm %d: cancelling notification: %v", s.Id, err)
	}
	rc.emit(PhaseStopped, 0)
	return nil
}

// Cancel disarms a controller that has not rung yet. A ringing controller is
// left alone; use Stop for that.
func (rc *RingController) Cancel() {
	if rc.state.CompareAndSwap(int32(StateArmed), int32(StateCancelled)) {
		rc.cancel()
		rc.emit(PhaseCancelled, 0)
	}
}

// vibrationBound picks the vibration cap: the audio duration when it gives a
// natural bound, the configured maximum otherwise. Never unbounded.
func (rc *RingController) vibrationBound(audioDur time.Duration) time.Duration {
	if !rc.session.Settings.LoopAudio && audioDur > 0 && audioDur < rc.vibMax {
		return audioDur
	}
	return rc.vibMax
}

// fadeTask walks the volume from 0.1 to 1.0 in ten levels spaced total/10
// apart. Level one was applied before playback started.
func (rc *RingController) fadeTask(total time.Duration) {
	step := total / fadeSteps
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for i := 2; i <= fadeSteps; i++ {
		select {
		case <-rc.ctx.Done():
			return
		case <-ticker.C:
			vol := float64(i) / float64(fadeSteps)
			if err := rc.session.Engine.SetVolume(vol); err != nil {
				rc.logf("alarm %d: fade step: %v", rc.session.Settings.Id, err)
				return
			}
			rc.emit(PhaseFadeStep, vol)
		}
	}
}

// vibrationTask pulses the vibrator until the bound elapses or the ring
// stops.
func (rc *RingController) vibrationTask(bound time.Duration) {
	deadline := time.Now().Add(bound)
	for {
		if !time.Now().Before(deadline) {
			return
		}
		if err := rc.vib.Vibrate(vibrationPulse); err != nil {
			rc.logf("alarm %d: vibrate: %v", rc.session.Settings.Id, err)
			return
		}
		select {
		case <-rc.ctx.Done():
			return
		case <-time.After(vibrationPulse + vibrationIdle):
		}
	}
}

// controlTask stops the ring when the observing context says so.
func (rc *RingController) controlTask() {
	for {
		select {
		case <-rc.ctx.Done():
			return
		case msg, ok := <-rc.control:
			if !ok {
				return
			}
			if msg == MsgStop {
				_ = rc.Stop()
				return
			}
		}
	}
}

func (rc *RingController) deliver(msg string) {
	if rc.send != nil {
		rc.send(msg)
	}
}

func (rc *RingController) emit(phase RingPhase, val float64) {
	if rc.onEvent != nil {
		rc.onEvent(RingEvent{
			AlarmId: rc.session.Settings.Id,
			Phase:   phase,
			Value:   val,
		})
	}
}

func (rc *RingController) logf(format string, args ...any) {
	if rc.log != nil {
		rc.log.Printf(format, args...)
	}
}
