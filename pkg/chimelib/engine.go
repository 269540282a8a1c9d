package chimelib

import (
	"time"
)

// Engine decodes and plays a single audio asset. A ring session owns exactly
// one engine; engines are not reused across sessions.
type Engine interface {
	// Load decodes the asset and returns its play duration. Implementations
	// cache decoded assets by reference.
	Load(assetRef string) (time.Duration, error)

	// SetLoop makes playback restart from the beginning when the asset ends.
	SetLoop(loop bool)

	// SetVolume sets the playback volume in [0.0, 1.0].
	SetVolume(vol float64) error

	// Play starts (or resumes) playback.
	Play() error

	// Stop halts playback. Safe to call more than once.
	Stop() error

	// Dispose releases the engine's resources. The engine is unusable after.
	Dispose() error

	// CurrentPosition returns how far into the asset playback currently is.
	// The position strictly increases while audio is audibly playing.
	CurrentPosition() (time.Duration, error)

	// ClearAssetCache drops all cached decoded assets.
	ClearAssetCache()
}

// Vibrator drives the device vibrator, when one exists.
type Vibrator interface {
	HasVibrator() bool
	Vibrate(d time.Duration) error
}

// SystemVolume reads and writes the system media volume as a value in
// [0.0, 1.0].
type SystemVolume interface {
	GetVolume() (float64, error)
	SetVolume(vol float64) error
}

// Notifier shows and cancels user-facing notifications. All calls are
// best-effort: a refused permission degrades to silence, never to a failed
// alarm.
type Notifier interface {
	// RequestPermission asks the platform for notification permission.
	RequestPermission() error

	// Show displays a notification for the given alarm id.
	Show(id int, title, body string, fullScreen bool) error

	// Cancel removes the notification for the given alarm id.
	Cancel(id int) error
}

// LifecycleState describes whether the observing context is on screen.
type LifecycleState int

const (
	Background LifecycleState = iota
	Foreground
)

// LifecycleObserver reports foreground/background transitions of the
// observing context.
type LifecycleObserver interface {
	Events() <-chan LifecycleState
}

// NopVibrator is a Vibrator for hosts without one.
type NopVibrator struct{}

func (NopVibrator) HasVibrator() bool           { return false }
func (NopVibrator) Vibrate(time.Duration) error { return nil }

// NopSystemVolume keeps a volume value in memory and never touches the host.
type NopSystemVolume struct {
	vol float64
}

func NewNopSystemVolume(vol float64) *NopSystemVolume {
	return &NopSystemVolume{vol: vol}
}

func (n *NopSystemVolume) GetVolume() (float64, error) { return n.vol, nil }

func (n *NopSystemVolume) SetVolume(vol float64) error {
	n.vol = vol
	return nil
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) RequestPermission() error             { return nil }
func (NopNotifier) Show(int, string, string, bool) error { return nil }
func (NopNotifier) Cancel(int) error                     { return nil }
