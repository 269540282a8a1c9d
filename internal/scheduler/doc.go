// Package scheduler is the daemon's exact-wake timer. It keeps pending wakes
// in a min-heap ordered by trigger time and sleeps until the earliest one is
// due, capped so that clock adjustments are noticed within a minute. Wakes
// carrying a cron expression are re-armed for their next occurrence after
// they fire.
package scheduler
