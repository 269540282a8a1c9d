package common

import "github.com/chimed/chime/pkg/chimelib"

// InputAlarmId carries just an alarm id.
type InputAlarmId struct {
	AlarmId int `json:"alarm_id"`
}

// SetParams is the request body for arming a new alarm.
type SetParams struct {
	AlarmId          int     `json:"alarm_id"`
	TargetTime       string  `json:"target_time"` // "2006-01-02 15:04" local time
	AudioAssetRef    string  `json:"audio_asset_ref"`
	LoopAudio        bool    `json:"loop_audio,omitempty"`
	Vibrate          bool    `json:"vibrate,omitempty"`
	VolumeMax        bool    `json:"volume_max,omitempty"`
	FadeDuration     float64 `json:"fade_duration,omitempty"`
	NotifTitle       string  `json:"notification_title,omitempty"`
	NotifBody        string  `json:"notification_body,omitempty"`
	NotifyOnKill     bool    `json:"notify_on_kill,omitempty"`
	StopOnNotifOpen  bool    `json:"stop_on_notification_open,omitempty"`
	FullScreenIntent bool    `json:"full_screen_intent,omitempty"`
	RepeatDaily      bool    `json:"repeat_daily,omitempty"`
	RepeatWeekly     bool    `json:"repeat_weekly,omitempty"`
	DayOfWeek        int     `json:"day_of_week,omitempty"`
	CronExpr         string  `json:"cron_expr,omitempty"`
}

// SetResponse is returned once an alarm has been persisted and armed.
type SetResponse struct {
	AlarmId    int    `json:"alarm_id"`
	TargetTime string `json:"target_time"`
	Repeats    bool   `json:"repeats,omitempty"`
}

// SnoozeParams re-arms a ringing alarm for now+Delay.
type SnoozeParams struct {
	AlarmId      int `json:"alarm_id"`
	DelaySeconds int `json:"delay_seconds"`
}

// RingingResponse is pushed to attached clients while an alarm rings.
type RingingResponse struct {
	AlarmId int           `json:"alarm_id"`
	Action  RingingAction `json:"action"`
	// Value carries the fade volume (percent) for ring_fade_step and the
	// vibration bound in seconds for ring_vibrate.
	Value float64 `json:"value,omitempty"`
}

// StatusResponse reports the live state of one alarm.
type StatusResponse struct {
	AlarmId    int    `json:"alarm_id"`
	TargetTime string `json:"target_time"`
	Ringing    bool   `json:"ringing"`
	Repeats    bool   `json:"repeats,omitempty"`
}

// ListParams filters the alarm listing.
type ListParams struct {
	IncludeStalled bool `json:"include_stalled,omitempty"`
}

// ListResponse carries every persisted alarm.
type ListResponse struct {
	Alarms []*chimelib.AlarmSettings `json:"alarms"`
}

// GetResponse carries one persisted alarm.
type GetResponse struct {
	Alarm *chimelib.AlarmSettings `json:"alarm"`
}

// StopResponse reports the outcome of a stop request.
type StopResponse struct {
	AlarmId int  `json:"alarm_id"`
	Deleted bool `json:"deleted"` // true when a stalled one-shot was removed
}

// StopAllResponse reports how many alarms were stopped.
type StopAllResponse struct {
	Stopped int `json:"stopped"`
}

// VersionResponse reports the daemon build.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}
