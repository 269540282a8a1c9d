package chimelib

import "time"

// RingState is the lifecycle state of one ring session.
type RingState int32

const (
	// StateArmed means the alarm is scheduled but not yet ringing.
	StateArmed RingState = iota
	// StateRinging means audio (and possibly vibration) is playing.
	StateRinging
	// StateStopped means the ring played and was stopped.
	StateStopped
	// StateCancelled means the alarm was disarmed before it rang.
	StateCancelled
)

func (s RingState) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateRinging:
		return "ringing"
	case StateStopped:
		return "stopped"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RingSession pairs an alarm's settings with the engine that plays it. A
// session is created when the alarm is armed and discarded when it stops;
// engines are never reused across sessions.
type RingSession struct {
	Settings *AlarmSettings
	Engine   Engine

	// StartedAt is when the ring actually began, zero until then.
	StartedAt time.Time
}

// RingPhase names the observable milestones of a ring.
type RingPhase int

const (
	PhaseStarted RingPhase = iota
	PhaseFadeStep
	PhaseVibrate
	PhaseStopped
	PhaseCancelled
)

func (p RingPhase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseFadeStep:
		return "fade-step"
	case PhaseVibrate:
		return "vibrate"
	case PhaseStopped:
		return "stopped"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RingEvent is one observable milestone of a ring session. For PhaseFadeStep
// the Value is the volume just applied; for PhaseVibrate it is the vibration
// bound in seconds.
type RingEvent struct {
	AlarmId int
	Phase   RingPhase
	Value   float64
}
