package chimelib

import (
	"errors"
	"testing"
	"time"
)

// Mon 2026-03-02 07:30 local.
var monday = time.Date(2026, 3, 2, 7, 30, 0, 0, time.Local)

func TestNextWeeklyOccurrenceSameDay(t *testing.T) {
	// Asking for Monday on a Monday lands a full week out, never today.
	next := NextWeeklyOccurrence(monday, 1)
	want := monday.AddDate(0, 0, 7)
	if !next.Equal(want) {
		t.Fatalf("got %s, want %s", next, want)
	}
}

func TestNextWeeklyOccurrenceForward(t *testing.T) {
	cases := []struct {
		day  int
		days int
	}{
		{2, 1}, // Tuesday
		{5, 4}, // Friday
		{7, 6}, // Sunday
	}
	for _, c := range cases {
		next := NextWeeklyOccurrence(monday, c.day)
		want := monday.AddDate(0, 0, c.days)
		if !next.Equal(want) {
			t.Errorf("day %d: got %s, want %s", c.day, next, want)
		}
	}
}

func TestNextWeeklyOccurrenceWrapsWeek(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.Local)
	next := NextWeeklyOccurrence(sunday, 3) // Wednesday
	want := sunday.AddDate(0, 0, 3)
	if !next.Equal(want) {
		t.Fatalf("got %s, want %s", next, want)
	}
}

func TestNextDailyOccurrence(t *testing.T) {
	// 08:00 is still ahead of 07:30, so it lands today.
	next := NextDailyOccurrence(monday, 8, 0)
	if next.Day() != monday.Day() || next.Hour() != 8 {
		t.Fatalf("got %s, want today 08:00", next)
	}
	// 06:00 already passed, so it lands tomorrow.
	next = NextDailyOccurrence(monday, 6, 0)
	want := time.Date(2026, 3, 3, 6, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("got %s, want %s", next, want)
	}
}

func TestScheduleNextRepeatDaily(t *testing.T) {
	s, err := NewAlarmSettings(1, monday, "tone.wav", &AlarmOpts{RepeatDaily: true})
	if err != nil {
		t.Fatal(err)
	}
	now := monday.Add(2 * time.Minute) // just rang
	repl, err := ScheduleNextRepeat(s, now)
	if err != nil {
		t.Fatal(err)
	}
	want := monday.AddDate(0, 0, 1)
	if !repl.TargetTime.Equal(want) {
		t.Fatalf("got %s, want %s", repl.TargetTime, want)
	}
	if repl.RepeatDaily || repl.RepeatWeekly {
		t.Fatal("replacement must carry cleared repeat flags")
	}
	if repl.Id != s.Id || repl.AudioAssetRef != s.AudioAssetRef {
		t.Fatal("replacement must keep the alarm's identity and ring behavior")
	}
}

func TestScheduleNextRepeatDailyWinsOverWeekly(t *testing.T) {
	s, err := NewAlarmSettings(2, monday, "tone.wav", &AlarmOpts{
		RepeatDaily:  true,
		RepeatWeekly: true,
		DayOfWeek:    5,
	})
	if err != nil {
		t.Fatal(err)
	}
	repl, err := ScheduleNextRepeat(s, monday.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if repl.TargetTime.Weekday() != time.Tuesday {
		t.Fatalf("daily must win over weekly, got %s", repl.TargetTime.Weekday())
	}
}

func TestScheduleNextRepeatWeeklyKeepsClock(t *testing.T) {
	s, err := NewAlarmSettings(3, monday, "tone.wav", &AlarmOpts{
		RepeatWeekly: true,
		DayOfWeek:    4, // Thursday
	})
	if err != nil {
		t.Fatal(err)
	}
	repl, err := ScheduleNextRepeat(s, monday.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if repl.TargetTime.Weekday() != time.Thursday {
		t.Fatalf("got %s, want Thursday", repl.TargetTime.Weekday())
	}
	if repl.TargetTime.Hour() != 7 || repl.TargetTime.Minute() != 30 {
		t.Fatalf("weekly repeat must keep the original clock time, got %s", repl.TargetTime)
	}
}

func TestScheduleNextRepeatRejectsOneShot(t *testing.T) {
	s, err := NewAlarmSettings(4, monday, "tone.wav", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ScheduleNextRepeat(s, monday); !errors.Is(err, ErrInvalidRepeatRequest) {
		t.Fatalf("got %v, want ErrInvalidRepeatRequest", err)
	}
}

func TestScheduleNextRepeatCron(t *testing.T) {
	s, err := NewAlarmSettings(5, monday, "tone.wav", &AlarmOpts{CronExpr: "30 7 * * *"})
	if err != nil {
		t.Fatal(err)
	}
	repl, err := ScheduleNextRepeat(s, monday.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !repl.TargetTime.After(monday) {
		t.Fatalf("cron repeat must land in the future, got %s", repl.TargetTime)
	}
	if repl.TargetTime.Hour() != 7 || repl.TargetTime.Minute() != 30 {
		t.Fatalf("got %s, want a 07:30 tick", repl.TargetTime)
	}
}
