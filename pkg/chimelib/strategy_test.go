package chimelib

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeWaker records schedule and cancel calls.
type fakeWaker struct {
	mu        sync.Mutex
	err       error
	scheduled []WakeEvent
	cancelled []int
}

func (w *fakeWaker) Schedule(ev WakeEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.scheduled = append(w.scheduled, ev)
	return nil
}

func (w *fakeWaker) Cancel(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelled = append(w.cancelled, id)
}

func (w *fakeWaker) schedules() []WakeEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]WakeEvent, len(w.scheduled))
	copy(out, w.scheduled)
	return out
}

type fireRecord struct {
	mu    sync.Mutex
	fired []int
}

func (f *fireRecord) fire(id int, _ WakeParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired = append(f.fired, id)
}

func (f *fireRecord) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fired)
}

func TestExactWakeSchedulesFutureAlarm(t *testing.T) {
	waker := &fakeWaker{}
	rec := &fireRecord{}
	st := NewExactWakeStrategy(waker, rec.fire, nil)

	s, _ := NewAlarmSettings(4, time.Now().Add(time.Hour), "tone.wav", nil)
	if err := st.Arm(s); err != nil {
		t.Fatal(err)
	}
	scheds := waker.schedules()
	if len(scheds) != 1 {
		t.Fatalf("got %d schedules", len(scheds))
	}
	if scheds[0].AlarmId != 4 || !scheds[0].TriggerAt.Equal(s.TargetTime) {
		t.Fatalf("got %+v", scheds[0])
	}
	if scheds[0].Params.AudioAssetRef != "tone.wav" {
		t.Fatal("wake must carry the ring bundle")
	}
	if !st.Armed(4) {
		t.Fatal("alarm must read as armed")
	}
	if rec.count() != 0 {
		t.Fatal("future alarm must not fire immediately")
	}

	st.Disarm(4)
	if st.Armed(4) {
		t.Fatal("disarmed alarm must not read as armed")
	}
	if len(waker.cancelled) != 1 || waker.cancelled[0] != 4 {
		t.Fatalf("cancelled %v", waker.cancelled)
	}
}

func TestExactWakeFiresImminentAlarmImmediately(t *testing.T) {
	waker := &fakeWaker{}
	rec := &fireRecord{}
	st := NewExactWakeStrategy(waker, rec.fire, nil)

	s, _ := NewAlarmSettings(5, time.Now(), "tone.wav", nil)
	if err := st.Arm(s); err != nil {
		t.Fatal(err)
	}
	if !waitFor(time.Second, func() bool { return rec.count() == 1 }) {
		t.Fatal("imminent alarm never fired")
	}
	if len(waker.schedules()) != 0 {
		t.Fatal("imminent alarm must bypass the timer")
	}
}

func TestExactWakeWrapsScheduleError(t *testing.T) {
	waker := &fakeWaker{err: errors.New("refused")}
	st := NewExactWakeStrategy(waker, (&fireRecord{}).fire, nil)

	s, _ := NewAlarmSettings(6, time.Now().Add(time.Hour), "tone.wav", nil)
	err := st.Arm(s)
	if !errors.Is(err, ErrScheduling) {
		t.Fatalf("got %v, want ErrScheduling", err)
	}
	if st.Armed(6) {
		t.Fatal("failed arm must not read as armed")
	}
}

func TestNewArmStrategySelectsByCapability(t *testing.T) {
	fire := (&fireRecord{}).fire
	st := NewArmStrategy(Capabilities{ExactWake: true}, &fakeWaker{}, fire, nil)
	if _, ok := st.(*ExactWakeStrategy); !ok {
		t.Fatalf("got %T, want exact-wake", st)
	}
	st = NewArmStrategy(Capabilities{ExactWake: false}, &fakeWaker{}, fire, nil)
	if _, ok := st.(*ForegroundPollStrategy); !ok {
		t.Fatalf("got %T, want foreground-poll", st)
	}
	st = NewArmStrategy(Capabilities{ExactWake: true}, nil, fire, nil)
	if _, ok := st.(*ForegroundPollStrategy); !ok {
		t.Fatalf("missing waker must fall back to polling, got %T", st)
	}
}

func TestPollStrategyFiresAndDisarms(t *testing.T) {
	rec := &fireRecord{}
	st := NewForegroundPollStrategy(rec.fire, &StrategyOpts{Poll: 5 * time.Millisecond})

	s, _ := NewAlarmSettings(7, time.Now().Add(-time.Minute), "tone.wav", nil)
	if err := st.Arm(s); err != nil {
		t.Fatal(err)
	}
	if !waitFor(time.Second, func() bool { return rec.count() == 1 }) {
		t.Fatal("poll strategy never fired")
	}

	future, _ := NewAlarmSettings(8, time.Now().Add(time.Hour), "tone.wav", nil)
	if err := st.Arm(future); err != nil {
		t.Fatal(err)
	}
	if !st.Armed(8) {
		t.Fatal("alarm must read as armed")
	}
	st.Disarm(8)
	if st.Armed(8) {
		t.Fatal("disarmed alarm must not read as armed")
	}
}
