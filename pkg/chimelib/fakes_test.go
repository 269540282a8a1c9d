package chimelib

import (
	"errors"
	"sync"
	"time"
)

// fakeEngine is an Engine whose position advances while playing, so the
// ringing probe behaves like real audio.
type fakeEngine struct {
	mu           sync.Mutex
	dur          time.Duration
	loadErr      error
	loaded       string
	loop         bool
	vols         []float64
	playing      bool
	stopped      bool
	disposed     bool
	cacheCleared bool
	pos          time.Duration
}

func (e *fakeEngine) Load(ref string) (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return 0, e.loadErr
	}
	e.loaded = ref
	return e.dur, nil
}

func (e *fakeEngine) SetLoop(loop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = loop
}

func (e *fakeEngine) SetVolume(vol float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vols = append(e.vols, vol)
	return nil
}

func (e *fakeEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = true
	return nil
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
	e.stopped = true
	return nil
}

func (e *fakeEngine) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
	return nil
}

func (e *fakeEngine) CurrentPosition() (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.pos += 10 * time.Millisecond
	}
	return e.pos, nil
}

func (e *fakeEngine) ClearAssetCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cacheCleared = true
}

func (e *fakeEngine) volumes() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, len(e.vols))
	copy(out, e.vols)
	return out
}

func (e *fakeEngine) snapshot() (playing, stopped, disposed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing, e.stopped, e.disposed
}

// fakeVibrator counts pulses.
type fakeVibrator struct {
	mu     sync.Mutex
	has    bool
	pulses int
}

func (v *fakeVibrator) HasVibrator() bool { return v.has }

func (v *fakeVibrator) Vibrate(time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pulses++
	return nil
}

func (v *fakeVibrator) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pulses
}

// recordingNotifier records every notification call.
type recordingNotifier struct {
	mu        sync.Mutex
	permErr   error
	permAsked int
	shown     map[int]string
	cancelled []int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{shown: make(map[int]string)}
}

func (n *recordingNotifier) RequestPermission() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.permAsked++
	return n.permErr
}

func (n *recordingNotifier) Show(id int, title, _ string, _ bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown[id] = title
	return nil
}

func (n *recordingNotifier) Cancel(id int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.shown, id)
	n.cancelled = append(n.cancelled, id)
	return nil
}

func (n *recordingNotifier) showing(id int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.shown[id]
	return ok
}

// messageSink collects channel messages.
type messageSink struct {
	mu   sync.Mutex
	msgs []string
}

func (s *messageSink) send(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *messageSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.msgs))
	copy(out, s.msgs)
	return out
}

var errLoadBoom = errors.New("decode failed")

func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
