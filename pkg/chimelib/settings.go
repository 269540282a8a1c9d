package chimelib

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// AlarmSettings is the full description of one scheduled alarm. It is the
// unit of persistence: what the manager stores is exactly what a cold-started
// ring needs to play.
type AlarmSettings struct {
	// Id uniquely identifies the alarm. Setting an alarm with an id that is
	// already live replaces the live one.
	Id int `json:"id"`

	// TargetTime is the moment the alarm should ring, truncated to the
	// minute.
	TargetTime time.Time `json:"target_time"`

	// AudioAssetRef names the audio asset to play. Must carry a file
	// extension.
	AudioAssetRef string `json:"audio_asset_ref"`

	// LoopAudio restarts the asset when it ends instead of stopping.
	LoopAudio bool `json:"loop_audio"`

	// Vibrate pulses the vibrator alongside audio while ringing.
	Vibrate bool `json:"vibrate"`

	// VolumeMax raises the system volume to maximum when the ring starts and
	// restores the previous level when it stops.
	VolumeMax bool `json:"volume_max"`

	// FadeDuration is the length in seconds of the volume ramp from quiet to
	// full. Zero means ring at full volume immediately.
	FadeDuration float64 `json:"fade_duration"`

	NotificationTitle string `json:"notification_title,omitempty"`
	NotificationBody  string `json:"notification_body,omitempty"`

	// NotifyOnKill shows a warning notification while any alarm is armed,
	// so the user learns that killing the daemon silences their alarms.
	NotifyOnKill bool `json:"enable_notification_on_kill"`

	// StopOnNotificationOpen stops the ring when the ringing notification is
	// opened, instead of only dismissing the notification.
	StopOnNotificationOpen bool `json:"stop_on_notification_open"`

	// FullScreenIntent asks the platform to surface the ringing notification
	// over whatever is on screen.
	FullScreenIntent bool `json:"full_screen_intent"`

	// RepeatDaily reschedules the alarm every day at the same time.
	RepeatDaily bool `json:"repeat_daily"`

	// RepeatWeekly reschedules the alarm every week on DayOfWeek.
	RepeatWeekly bool `json:"repeat_weekly"`

	// DayOfWeek is the ISO weekday (1=Monday .. 7=Sunday) a weekly alarm
	// rings on. Meaningful only when RepeatWeekly is set.
	DayOfWeek int `json:"day_of_week"`

	// CronExpr, when non-empty, reschedules the alarm on a cron expression
	// instead of the daily/weekly flags.
	CronExpr string `json:"cron_expr,omitempty"`

	// DateAdded records when the alarm was first set.
	DateAdded time.Time `json:"date_added"`
}

// AlarmOpts carries the optional fields of NewAlarmSettings. The zero value
// is a one-shot alarm that plays its asset once at full volume.
type AlarmOpts struct {
	LoopAudio              bool
	Vibrate                bool
	VolumeMax              bool
	FadeDuration           float64
	NotificationTitle      string
	NotificationBody       string
	NotifyOnKill           bool
	StopOnNotificationOpen bool
	FullScreenIntent       bool
	RepeatDaily            bool
	RepeatWeekly           bool
	DayOfWeek              int
	CronExpr               string
}

// NewAlarmSettings validates and normalizes the inputs for one alarm.
// The target time is truncated to the minute, a negative fade is clamped to
// zero, and the asset reference must end in a file extension.
func NewAlarmSettings(id int, target time.Time, assetRef string, opts *AlarmOpts) (*AlarmSettings, error) {
	if opts == nil {
		opts = &AlarmOpts{}
	}
	if filepath.Ext(assetRef) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAssetReference, assetRef)
	}
	if opts.RepeatWeekly && (opts.DayOfWeek < 1 || opts.DayOfWeek > 7) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, opts.DayOfWeek)
	}
	fade := opts.FadeDuration
	if fade < 0 {
		fade = 0
	}
	return &AlarmSettings{
		Id:                     id,
		TargetTime:             TruncateToMinute(target),
		AudioAssetRef:          assetRef,
		LoopAudio:              opts.LoopAudio,
		Vibrate:                opts.Vibrate,
		VolumeMax:              opts.VolumeMax,
		FadeDuration:           fade,
		NotificationTitle:      opts.NotificationTitle,
		NotificationBody:       opts.NotificationBody,
		NotifyOnKill:           opts.NotifyOnKill,
		StopOnNotificationOpen: opts.StopOnNotificationOpen,
		FullScreenIntent:       opts.FullScreenIntent,
		RepeatDaily:            opts.RepeatDaily,
		RepeatWeekly:           opts.RepeatWeekly,
		DayOfWeek:              opts.DayOfWeek,
		CronExpr:               opts.CronExpr,
		DateAdded:              time.Now(),
	}, nil
}

// Repeats reports whether the alarm reschedules itself after ringing.
func (s *AlarmSettings) Repeats() bool {
	return s.RepeatDaily || s.RepeatWeekly || s.CronExpr != ""
}

// Stalled reports whether the alarm's moment has passed without it being a
// weekly repeater. Weekly alarms are never stalled.
func (s *AlarmSettings) Stalled(now time.Time) bool {
	return !s.RepeatWeekly && s.TargetTime.Before(now)
}

// NotificationEnabled reports whether a ringing notification should be shown.
// Both the title and the body must be set.
func (s *AlarmSettings) NotificationEnabled() bool {
	return s.NotificationTitle != "" && s.NotificationBody != ""
}

// CollidesWith reports whether the other alarm occupies the same slot: same
// id, or same calendar date, hour and minute.
func (s *AlarmSettings) CollidesWith(other *AlarmSettings) bool {
	if s.Id == other.Id {
		return true
	}
	return s.TargetTime.Equal(other.TargetTime)
}

// FadeDur returns the fade duration as a time.Duration.
func (s *AlarmSettings) FadeDur() time.Duration {
	return time.Duration(s.FadeDuration * float64(time.Second))
}

// AlarmsMap maps alarm ids to their settings.
type AlarmsMap map[int]*AlarmSettings

// sorted returns the alarms ordered by target time, ties broken by id.
func (am AlarmsMap) sorted() []*AlarmSettings {
	out := make([]*AlarmSettings, 0, len(am))
	for _, s := range am {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TargetTime.Equal(out[j].TargetTime) {
			return out[i].Id < out[j].Id
		}
		return out[i].TargetTime.Before(out[j].TargetTime)
	})
	return out
}
