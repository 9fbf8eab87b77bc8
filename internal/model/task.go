package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar day a task is planned for.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("model: invalid task date")
	ErrAlreadyCompleted = errors.New("model: task already completed")
	ErrNotCompleted     = errors.New("model: task is not completed")
)

type Task struct {
	ID          string
	Title       string
	Description string
	Date        string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask builds an open task for day with a fresh id. An empty date means
// the local day of now.
func NewTask(title, description, date string, now time.Time) (Task, error) {
	if strings.TrimSpace(date) == "" {
		date = now.Format(DateLayout)
	}
	t := Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Date:        date,
		CreatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, t.Date)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is open")
	}
	return nil
}

// Complete marks an open task done. Only this transition earns credit.
func (t *Task) Complete(now time.Time) error {
	if t.Completed {
		return ErrAlreadyCompleted
	}
	t.Completed = true
	t.CompletedAt = &now
	return nil
}

// Reopen undoes Complete. Experience already earned is kept.
func (t *Task) Reopen() error {
	if !t.Completed {
		return ErrNotCompleted
	}
	t.Completed = false
	t.CompletedAt = nil
	return nil
}

// Edit changes the user-editable fields. Nil fields are left alone.
// Completion is not editable here: it goes through Complete and Reopen.
type Edit struct {
	Title       *string
	Description *string
	Date        *string
}

func (e Edit) IsZero() bool {
	return e.Title == nil && e.Description == nil && e.Date == nil
}

// Apply edits t in place. On a validation error t is left unchanged.
func (t *Task) Apply(e Edit) error {
	next := *t
	if e.Title != nil {
		next.Title = strings.TrimSpace(*e.Title)
	}
	if e.Description != nil {
		next.Description = strings.TrimSpace(*e.Description)
	}
	if e.Date != nil {
		next.Date = strings.TrimSpace(*e.Date)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*t = next
	return nil
}

func (t Task) DueOn(day time.Time) bool {
	return t.Date == day.Format(DateLayout)
}
