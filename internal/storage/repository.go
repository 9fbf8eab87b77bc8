package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// TaskStore persists planned tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
}

// FocusLog is the append-only history of finished pomodoro phases.
type FocusLog interface {
	RecordFocusSession(ctx context.Context, in FocusSession) error
	ListFocusSessions(ctx context.Context, filter FocusSessionListFilter) ([]FocusSession, error)
}

type Repository interface {
	TaskStore
	FocusLog
}

var _ Repository = (*SQLiteRepository)(nil)
