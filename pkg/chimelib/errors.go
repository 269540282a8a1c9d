package chimelib

import "errors"

var (
	// ErrInvalidAssetReference means the audio asset reference carries no
	// file-extension-like suffix. Rejected before any scheduling side effect.
	ErrInvalidAssetReference = errors.New("audio asset reference has no file extension")

	// ErrChannelRegistration means a named channel endpoint could not be
	// established.
	ErrChannelRegistration = errors.New("channel endpoint registration failed")

	// ErrScheduling means the arming primitive refused to schedule the wake.
	ErrScheduling = errors.New("scheduler refused to arm alarm")

	// ErrAssetLoad means decoding or opening the audio asset failed. The
	// decoded-asset cache is cleared before this is surfaced.
	ErrAssetLoad = errors.New("failed to load audio asset")

	// ErrPlatformBridge means a best-effort platform service call (such as
	// the notify-on-kill toggle) failed.
	ErrPlatformBridge = errors.New("platform service call failed")

	// ErrAlarmNotFound means no persisted alarm exists for the given id.
	ErrAlarmNotFound = errors.New("alarm not found")

	// ErrInvalidRepeatRequest means a repeat recomputation was requested for
	// an alarm that was never flagged repeating. Defensive; should be
	// unreachable through the registry.
	ErrInvalidRepeatRequest = errors.New("alarm is not a repeating alarm")

	// ErrInvalidDayOfWeek means a weekly alarm carries a day outside [1,7].
	ErrInvalidDayOfWeek = errors.New("day of week must be within 1..7")
)
