package chimelib

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

// NextWeeklyOccurrence returns the next date on or after from that falls on
// the given ISO weekday (1=Monday .. 7=Sunday). If from already falls on that
// weekday the result is a full week later, never from itself.
func NextWeeklyOccurrence(from time.Time, dayOfWeek int) time.Time {
	cur := isoWeekday(from)
	if cur == dayOfWeek {
		return from.AddDate(0, 0, 7)
	}
	delta := ((dayOfWeek - cur) % 7 + 7) % 7
	return from.AddDate(0, 0, delta)
}

// NextDailyOccurrence returns today's instance of hour:minute relative to
// from, or tomorrow's if today's has already passed.
func NextDailyOccurrence(from time.Time, hour, minute int) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())
	if next.Before(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleNextRepeat computes the replacement settings for a repeating alarm
// that has just finished ringing (or was found in the past on startup). The
// replacement keeps the alarm's identity and ring behavior but carries the
// recomputed target time and cleared repeat flags. Daily wins over weekly
// when both are set.
func ScheduleNextRepeat(s *AlarmSettings, now time.Time) (*AlarmSettings, error) {
	if !s.Repeats() {
		return nil, fmt.Errorf("%w: alarm %d", ErrInvalidRepeatRequest, s.Id)
	}
	var next time.Time
	switch {
	case s.RepeatDaily:
		next = NextDailyOccurrence(now, s.TargetTime.Hour(), s.TargetTime.Minute())
	case s.RepeatWeekly:
		day := NextWeeklyOccurrence(now, s.DayOfWeek)
		next = time.Date(day.Year(), day.Month(), day.Day(),
			s.TargetTime.Hour(), s.TargetTime.Minute(), 0, 0, now.Location())
	default:
		tick, err := gronx.NextTickAfter(s.CronExpr, now, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRepeatRequest, err)
		}
		next = tick
	}
	repl := *s
	repl.TargetTime = TruncateToMinute(next)
	repl.RepeatDaily = false
	repl.RepeatWeekly = false
	return &repl, nil
}
