// Package app binds tasks, the gamification engine and the pomodoro
// controller into the operations the TUI and CLI expose.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/logger"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/storage"
)

var ErrNoTaskSelected = errors.New("app: no task selected")

// Event is an engine outcome produced by the timer's handlers, surfaced so
// a front end can report rewards it did not trigger directly.
type Event struct {
	Session *pomodoro.SessionCompleted
	Break   *pomodoro.BreakCompleted
	Outcome gamification.Outcome
}

type Options struct {
	Repo       storage.Repository
	Progress   gamification.Store
	Settings   pomodoro.Settings
	WeekPolicy gamification.WeekPolicy
	Notifier   pomodoro.Notifier
	Cue        pomodoro.Cue
	Now        func() time.Time
	Logger     *log.Logger
}

type App struct {
	Repo   storage.Repository
	Engine *gamification.Engine
	Timer  *pomodoro.Controller

	now func() time.Time
	log *log.Logger

	mu       sync.Mutex
	events   []Event
	skipping bool
}

func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Repo == nil {
		return nil, errors.New("app: repository is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}

	a := &App{Repo: opts.Repo, now: opts.Now, log: opts.Logger}
	a.Engine = gamification.New(ctx, opts.Progress,
		gamification.WithClock(opts.Now),
		gamification.WithWeekPolicy(opts.WeekPolicy),
		gamification.WithLogger(opts.Logger),
	)

	timerOpts := []pomodoro.Option{
		pomodoro.WithSettings(opts.Settings),
		pomodoro.WithClock(opts.Now),
		pomodoro.WithLogger(opts.Logger),
		pomodoro.OnSessionCompleted(a.handleSessionCompleted),
		pomodoro.OnBreakCompleted(a.handleBreakCompleted),
	}
	if opts.Notifier != nil {
		timerOpts = append(timerOpts, pomodoro.WithNotifier(opts.Notifier))
	}
	if opts.Cue != nil {
		timerOpts = append(timerOpts, pomodoro.WithCue(opts.Cue))
	}
	a.Timer = pomodoro.New(timerOpts...)
	return a, nil
}

// AddTask stores a new task for date (today when empty) and counts it.
func (a *App) AddTask(ctx context.Context, title, description, date string) (model.Task, error) {
	task, err := model.NewTask(title, description, date, a.now())
	if err != nil {
		return model.Task{}, err
	}
	if err := a.Repo.CreateTask(ctx, toEntity(task)); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	a.Engine.RecordTaskCreated()
	a.log.Debug("task added", "id", task.ID, "date", task.Date)
	return task, nil
}

// CompleteTask marks id done and credits the engine. Completing a task that
// is already done returns model.ErrAlreadyCompleted and earns nothing.
func (a *App) CompleteTask(ctx context.Context, id string) (model.Task, gamification.Outcome, error) {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, gamification.Outcome{}, err
	}
	if err := task.Complete(a.now()); err != nil {
		return task, gamification.Outcome{}, err
	}
	if err := a.Repo.UpdateTask(ctx, toEntity(task)); err != nil {
		return model.Task{}, gamification.Outcome{}, fmt.Errorf("update task: %w", err)
	}
	out := a.Engine.RecordTaskCompleted()
	return task, out, nil
}

// ReopenTask marks a done task open again. Earned experience is kept.
func (a *App) ReopenTask(ctx context.Context, id string) (model.Task, error) {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := task.Reopen(); err != nil {
		return task, err
	}
	if err := a.Repo.UpdateTask(ctx, toEntity(task)); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// UpdateTask edits title, description or date. It never touches completion
// and earns nothing; the timer's selected task picks up a new title.
func (a *App) UpdateTask(ctx context.Context, id string, edit model.Edit) (model.Task, error) {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if edit.IsZero() {
		return task, nil
	}
	if err := task.Apply(edit); err != nil {
		return model.Task{}, err
	}
	if err := a.Repo.UpdateTask(ctx, toEntity(task)); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if a.Timer.State().Task.ID == task.ID {
		a.Timer.SetTask(pomodoro.TaskRef{ID: task.ID, Title: task.Title})
	}
	a.log.Debug("task edited", "id", task.ID, "date", task.Date)
	return task, nil
}

func (a *App) DeleteTask(ctx context.Context, id string) error {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if err := a.Repo.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if a.Timer.State().Task.ID == task.ID {
		a.Timer.ClearTask()
	}
	return nil
}

// GetTask resolves id exactly, or as a unique prefix of a stored id.
func (a *App) GetTask(ctx context.Context, id string) (model.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Task{}, fmt.Errorf("task id is required: %w", storage.ErrNotFound)
	}
	row, err := a.Repo.GetTask(ctx, id)
	if err == nil {
		return fromEntity(row), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}

	rows, err := a.Repo.ListTasks(ctx, storage.TaskListFilter{IDPrefix: id, Limit: 2})
	if err != nil {
		return model.Task{}, fmt.Errorf("list tasks: %w", err)
	}
	switch len(rows) {
	case 0:
		return model.Task{}, fmt.Errorf("task %q: %w", id, storage.ErrNotFound)
	case 1:
		return fromEntity(rows[0]), nil
	default:
		return model.Task{}, fmt.Errorf("task id %q is ambiguous", id)
	}
}

func (a *App) ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]model.Task, error) {
	rows, err := a.Repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromEntity(row))
	}
	return out, nil
}

// SelectTask associates id with the timer so finished work sessions are
// credited. An empty id clears the selection.
func (a *App) SelectTask(ctx context.Context, id string) (model.Task, error) {
	if strings.TrimSpace(id) == "" {
		a.Timer.ClearTask()
		return model.Task{}, nil
	}
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	a.Timer.SetTask(pomodoro.TaskRef{ID: task.ID, Title: task.Title})
	return task, nil
}

func (a *App) SelectedTask() (pomodoro.TaskRef, error) {
	ref := a.Timer.State().Task
	if ref.ID == "" {
		return pomodoro.TaskRef{}, ErrNoTaskSelected
	}
	return ref, nil
}

// SkipPhase ends the current phase early. A skipped work phase is still
// credited; the focus history marks it as skipped.
func (a *App) SkipPhase() pomodoro.Transition {
	a.mu.Lock()
	a.skipping = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.skipping = false
		a.mu.Unlock()
	}()
	tr, _ := a.Timer.Skip()
	return tr
}

func (a *App) FocusHistory(ctx context.Context, limit int) ([]storage.FocusSession, error) {
	return a.Repo.ListFocusSessions(ctx, storage.FocusSessionListFilter{Limit: limit})
}

// DrainEvents returns and clears the outcomes produced by timer handlers.
func (a *App) DrainEvents() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.events
	a.events = nil
	return out
}

func (a *App) handleSessionCompleted(ev pomodoro.SessionCompleted) {
	out := a.Engine.RecordPomodoroSessionCompleted(ev.FocusMinutes)
	a.logSession(storage.FocusSession{
		TaskID:      ev.TaskID,
		Phase:       string(pomodoro.PhaseWork),
		Minutes:     ev.FocusMinutes,
		Skipped:     a.isSkipping(),
		CompletedAt: a.now(),
	})
	a.log.Info("pomodoro credited", "task", ev.TaskID, "minutes", ev.FocusMinutes, "xp", out.ExperienceGained)
	a.push(Event{Session: &ev, Outcome: out})
}

func (a *App) handleBreakCompleted(ev pomodoro.BreakCompleted) {
	a.Engine.RecordBreakCompleted(ev.Minutes)
	a.logSession(storage.FocusSession{
		Phase:       string(ev.Phase),
		Minutes:     ev.Minutes,
		CompletedAt: a.now(),
	})
	a.push(Event{Break: &ev})
}

func (a *App) logSession(s storage.FocusSession) {
	if err := a.Repo.RecordFocusSession(context.Background(), s); err != nil {
		a.log.Warn("record focus session", "err", err)
	}
}

func (a *App) isSkipping() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skipping
}

func (a *App) push(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func toEntity(t model.Task) storage.Task {
	return storage.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func fromEntity(t storage.Task) model.Task {
	return model.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}
