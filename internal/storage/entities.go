package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Date        string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// FocusSession is one finished pomodoro phase. TaskID is empty for breaks
// and for work sessions run without a selected task.
type FocusSession struct {
	ID          string
	TaskID      string
	Phase       string
	Minutes     int
	Skipped     bool
	CompletedAt time.Time
}

type TaskListFilter struct {
	Date      string
	Completed *bool
	// IDPrefix matches ids starting with the given text.
	IDPrefix string
	Limit    int
	Offset   int
}

type FocusSessionListFilter struct {
	TaskID string
	Since  *time.Time
	Limit  int
	Offset int
}
