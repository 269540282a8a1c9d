package scheduler

import "errors"

var (
	// ErrInvalidCronExpr means a wake carried a cron expression gronx could
	// not parse.
	ErrInvalidCronExpr = errors.New("invalid cron expression")

	// ErrSchedulerClosed means the run loop has shut down.
	ErrSchedulerClosed = errors.New("scheduler is closed")
)
