package chimelib

import (
	"errors"
	"testing"
	"time"
)

func TestNewAlarmSettingsTruncatesToMinute(t *testing.T) {
	target := time.Date(2026, 3, 2, 7, 30, 45, 123456, time.Local)
	s, err := NewAlarmSettings(1, target, "tone.wav", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.TargetTime.Second() != 0 || s.TargetTime.Nanosecond() != 0 {
		t.Fatalf("target not truncated: %s", s.TargetTime)
	}
}

func TestNewAlarmSettingsRejectsBareAssetRef(t *testing.T) {
	_, err := NewAlarmSettings(1, monday, "tone", nil)
	if !errors.Is(err, ErrInvalidAssetReference) {
		t.Fatalf("got %v, want ErrInvalidAssetReference", err)
	}
}

func TestNewAlarmSettingsClampsNegativeFade(t *testing.T) {
	s, err := NewAlarmSettings(1, monday, "tone.wav", &AlarmOpts{FadeDuration: -3})
	if err != nil {
		t.Fatal(err)
	}
	if s.FadeDuration != 0 {
		t.Fatalf("fade %f, want 0", s.FadeDuration)
	}
}

func TestNewAlarmSettingsValidatesDayOfWeek(t *testing.T) {
	for _, day := range []int{0, 8, -1} {
		_, err := NewAlarmSettings(1, monday, "tone.wav", &AlarmOpts{
			RepeatWeekly: true,
			DayOfWeek:    day,
		})
		if !errors.Is(err, ErrInvalidDayOfWeek) {
			t.Errorf("day %d: got %v, want ErrInvalidDayOfWeek", day, err)
		}
	}
	// Without the weekly flag the field is ignored.
	if _, err := NewAlarmSettings(1, monday, "tone.wav", &AlarmOpts{DayOfWeek: 99}); err != nil {
		t.Fatal(err)
	}
}

func TestStalled(t *testing.T) {
	now := monday.Add(time.Hour)

	oneShot, _ := NewAlarmSettings(1, monday, "tone.wav", nil)
	if !oneShot.Stalled(now) {
		t.Fatal("past one-shot must be stalled")
	}
	if oneShot.Stalled(monday.Add(-time.Hour)) {
		t.Fatal("future one-shot must not be stalled")
	}

	weekly, _ := NewAlarmSettings(2, monday, "tone.wav", &AlarmOpts{
		RepeatWeekly: true,
		DayOfWeek:    1,
	})
	if weekly.Stalled(now) {
		t.Fatal("weekly alarms are never stalled")
	}
}

func TestCollidesWith(t *testing.T) {
	a, _ := NewAlarmSettings(1, monday, "tone.wav", nil)
	sameSlot, _ := NewAlarmSettings(2, monday.Add(30*time.Second), "other.wav", nil)
	otherSlot, _ := NewAlarmSettings(3, monday.Add(time.Minute), "tone.wav", nil)
	sameId, _ := NewAlarmSettings(1, monday.Add(time.Hour), "tone.wav", nil)

	if !a.CollidesWith(sameSlot) {
		t.Fatal("same minute must collide")
	}
	if a.CollidesWith(otherSlot) {
		t.Fatal("different minute must not collide")
	}
	if !a.CollidesWith(sameId) {
		t.Fatal("same id must collide")
	}
}

func TestNotificationEnabled(t *testing.T) {
	s, _ := NewAlarmSettings(1, monday, "tone.wav", &AlarmOpts{NotificationTitle: "Wake"})
	if s.NotificationEnabled() {
		t.Fatal("title alone must not enable the notification")
	}
	s.NotificationBody = "Get up"
	if !s.NotificationEnabled() {
		t.Fatal("title and body must enable the notification")
	}
}
