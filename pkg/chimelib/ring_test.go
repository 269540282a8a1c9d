package chimelib

import (
	"errors"
	"testing"
	"time"
)

func ringSettings(t *testing.T, opts *AlarmOpts) *AlarmSettings {
	t.Helper()
	s, err := NewAlarmSettings(1, time.Now().Add(time.Minute), "tone.wav", opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRingStartsQuietAndFadesToFull(t *testing.T) {
	s := ringSettings(t, &AlarmOpts{FadeDuration: 0.2})
	eng := &fakeEngine{dur: 5 * time.Second}
	sink := &messageSink{}
	rc := NewRingController(s, eng, &RingControllerOpts{Send: sink.send})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if rc.State() != StateRinging {
		t.Fatalf("state %s, want ringing", rc.State())
	}
	if !waitFor(2*time.Second, func() bool {
		vols := eng.volumes()
		return len(vols) > 0 && vols[len(vols)-1] == 1.0
	}) {
		t.Fatalf("fade never reached full volume: %v", eng.volumes())
	}
	vols := eng.volumes()
	if vols[0] != 0.1 {
		t.Fatalf("fade must start at 0.1, got %v", vols[0])
	}
	if len(vols) != 10 {
		t.Fatalf("fade must visit 10 levels, got %d: %v", len(vols), vols)
	}
	for i := 1; i < len(vols); i++ {
		if vols[i] <= vols[i-1] {
			t.Fatalf("fade must be monotonic: %v", vols)
		}
	}
	msgs := sink.all()
	if len(msgs) == 0 || msgs[0] != MsgRing {
		t.Fatalf("first message must be %q, got %v", MsgRing, msgs)
	}
	_ = rc.Stop()
}

func TestRingWithoutFadePlaysAtFullVolume(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{dur: time.Second}
	rc := NewRingController(s, eng, nil)

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	vols := eng.volumes()
	if len(vols) != 1 || vols[0] != 1.0 {
		t.Fatalf("got %v, want just 1.0", vols)
	}
	_ = rc.Stop()
}

func TestRingVolumeMaxSaveRestore(t *testing.T) {
	s := ringSettings(t, &AlarmOpts{VolumeMax: true})
	eng := &fakeEngine{dur: time.Second}
	sysvol := NewNopSystemVolume(0.35)
	rc := NewRingController(s, eng, &RingControllerOpts{SystemVolume: sysvol})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if v, _ := sysvol.GetVolume(); v != 1.0 {
		t.Fatalf("system volume %f, want 1.0 while ringing", v)
	}
	if err := rc.Stop(); err != nil {
		t.Fatal(err)
	}
	if v, _ := sysvol.GetVolume(); v != 0.35 {
		t.Fatalf("system volume %f, want 0.35 restored", v)
	}
}

func TestRingAssetLoadFailureClearsCache(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{loadErr: errLoadBoom}
	rc := NewRingController(s, eng, nil)

	err := rc.Ring()
	if !errors.Is(err, ErrAssetLoad) {
		t.Fatalf("got %v, want ErrAssetLoad", err)
	}
	if !eng.cacheCleared {
		t.Fatal("asset cache must be cleared on load failure")
	}
	if rc.State() != StateStopped {
		t.Fatalf("state %s, want stopped", rc.State())
	}
}

func TestRingVibrationAnnouncesBound(t *testing.T) {
	s := ringSettings(t, &AlarmOpts{Vibrate: true})
	eng := &fakeEngine{dur: 3 * time.Second}
	vib := &fakeVibrator{has: true}
	sink := &messageSink{}
	rc := NewRingController(s, eng, &RingControllerOpts{Vibrator: vib, Send: sink.send})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	defer rc.Stop()

	if !waitFor(time.Second, func() bool { return vib.count() > 0 }) {
		t.Fatal("vibrator never pulsed")
	}
	found := false
	for _, m := range sink.all() {
		if m == "vibrate-3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing vibrate-3 announcement, got %v", sink.all())
	}
}

func TestVibrationBoundNeverUnbounded(t *testing.T) {
	mk := func(loop bool) *RingController {
		s := ringSettings(t, &AlarmOpts{Vibrate: true, LoopAudio: loop})
		return NewRingController(s, &fakeEngine{}, nil)
	}
	// Short audio gives the natural bound.
	if b := mk(false).vibrationBound(3 * time.Second); b != 3*time.Second {
		t.Fatalf("got %s, want 3s", b)
	}
	// Looping audio falls back to the default cap.
	if b := mk(true).vibrationBound(3 * time.Second); b != DefaultVibrationBound {
		t.Fatalf("got %s, want default bound", b)
	}
	// Unknown duration falls back too.
	if b := mk(false).vibrationBound(0); b != DefaultVibrationBound {
		t.Fatalf("got %s, want default bound", b)
	}
	// Long audio never exceeds the cap.
	if b := mk(false).vibrationBound(10 * time.Minute); b != DefaultVibrationBound {
		t.Fatalf("got %s, want default bound", b)
	}
}

func TestRingStopsOnControlMessage(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{dur: time.Second}
	control := make(chan string, 1)
	rc := NewRingController(s, eng, &RingControllerOpts{Control: control})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	control <- MsgStop
	if !waitFor(time.Second, func() bool { return rc.State() == StateStopped }) {
		t.Fatalf("state %s, want stopped", rc.State())
	}
	_, stopped, disposed := eng.snapshot()
	if !stopped || !disposed {
		t.Fatalf("engine stopped=%v disposed=%v", stopped, disposed)
	}
}

func TestRingStopIsIdempotent(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{dur: time.Second}
	rc := NewRingController(s, eng, nil)
	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if err := rc.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := rc.Stop(); err != nil {
		t.Fatal(err)
	}
	if rc.State() != StateStopped {
		t.Fatalf("state %s, want stopped", rc.State())
	}
}

func TestCancelBeforeRingNeverPlays(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{dur: time.Second}
	rc := NewRingController(s, eng, nil)

	rc.Cancel()
	if rc.State() != StateCancelled {
		t.Fatalf("state %s, want cancelled", rc.State())
	}
	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if playing, _, _ := eng.snapshot(); playing {
		t.Fatal("cancelled alarm must not play")
	}
}

func TestRingShowsAndClearsNotification(t *testing.T) {
	s := ringSettings(t, &AlarmOpts{
		NotificationTitle: "Wake up",
		NotificationBody:  "It is time",
	})
	eng := &fakeEngine{dur: time.Second}
	notif := newRecordingNotifier()
	rc := NewRingController(s, eng, &RingControllerOpts{Notifier: notif})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if !notif.showing(s.Id) {
		t.Fatal("ringing must show the notification")
	}
	if err := rc.Stop(); err != nil {
		t.Fatal(err)
	}
	if notif.showing(s.Id) {
		t.Fatal("stop must clear the notification")
	}
}

func TestRingEmitsLifecycleEvents(t *testing.T) {
	s := ringSettings(t, nil)
	eng := &fakeEngine{dur: time.Second}
	events := make(chan RingEvent, 16)
	rc := NewRingController(s, eng, &RingControllerOpts{
		OnEvent: func(ev RingEvent) { events <- ev },
	})

	if err := rc.Ring(); err != nil {
		t.Fatal(err)
	}
	if err := rc.Stop(); err != nil {
		t.Fatal(err)
	}
	close(events)
	var phases []RingPhase
	for ev := range events {
		phases = append(phases, ev.Phase)
	}
	if len(phases) < 2 || phases[0] != PhaseStarted || phases[len(phases)-1] != PhaseStopped {
		t.Fatalf("got phases %v", phases)
	}
}
