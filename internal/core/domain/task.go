package domain

import "time"

// TaskIDReindex is the ID of the periodic re-index task.
const TaskIDReindex = "reindex"

// ScheduledTask is a recurring background job and its run state.
type ScheduledTask struct {
	// ID is the unique task identifier.
	ID string

	// Name is a human-readable label.
	Name string

	// Interval is the time between runs.
	Interval time.Duration

	// LastRun is when the task last started. Zero if never run.
	LastRun time.Time

	// NextRun is when the task is next due.
	NextRun time.Time

	// LastError is the error message of the last failed run.
	LastError string

	// LastSuccess is when the task last completed without error.
	LastSuccess time.Time

	// Enabled controls whether the scheduler runs the task.
	Enabled bool
}

// Due reports whether the task should run at now.
func (t *ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && !t.NextRun.After(now)
}

// TaskResult records one execution of a scheduled task.
type TaskResult struct {
	TaskID         string
	StartedAt      time.Time
	EndedAt        time.Time
	Success        bool
	Error          string
	ItemsProcessed int
}
