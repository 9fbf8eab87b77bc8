package gamification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/taskquest/internal/logger"
)

// ErrNoProgress is returned by a Store that has nothing saved yet.
var ErrNoProgress = errors.New("gamification: no saved progress")

// Store persists the serialized Progress record.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// Outcome describes what a completion event earned.
type Outcome struct {
	ExperienceGained int
	Unlocked         []UnlockedAchievement
	PreviousLevel    int
	Level            int
}

func (o Outcome) LevelUp() bool {
	return o.Level > o.PreviousLevel
}

// AchievementStatus is a catalog entry joined with the user's progress on it.
// UnlockedAt is set only while the unlock is still queued for notification.
type AchievementStatus struct {
	Achievement
	Unlocked   bool
	UnlockedAt *time.Time
	Progress   int
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithWeekPolicy(p WeekPolicy) Option {
	return func(e *Engine) {
		if p != "" {
			e.weekPolicy = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine owns the Progress record. Every mutation recomputes the level
// caches and hands the full record to the Store.
type Engine struct {
	mu         sync.Mutex
	store      Store
	progress   Progress
	now        func() time.Time
	weekPolicy WeekPolicy
	log        *log.Logger
}

// New loads the saved record (falling back to defaults when it is missing
// or unreadable) and reconciles daily and weekly counters against today.
func New(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		now:        time.Now,
		weekPolicy: WeekPolicyWeekday,
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.progress = e.load(ctx)
	if reconcile(&e.progress, e.now(), e.weekPolicy) {
		e.log.Debug("reset period counters", "last_active", e.progress.LastActiveDate, "policy", e.weekPolicy)
		e.persist(ctx)
	}
	return e
}

func (e *Engine) load(ctx context.Context) Progress {
	if e.store == nil {
		return DefaultProgress()
	}
	raw, err := e.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoProgress) {
			e.log.Warn("load progress failed, starting fresh", "err", err)
		}
		return DefaultProgress()
	}
	if len(raw) == 0 {
		return DefaultProgress()
	}
	p, err := decodeProgress(raw)
	if err != nil {
		e.log.Warn("saved progress is malformed, starting fresh", "err", err)
		return DefaultProgress()
	}
	return p
}

func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}
	payload, err := encodeProgress(e.progress)
	if err != nil {
		e.log.Error("encode progress", "err", err)
		return
	}
	if err := e.store.Save(ctx, payload); err != nil {
		e.log.Error("save progress", "err", err)
	}
}

func (e *Engine) RecordTaskCreated() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress.TasksCreated++
	e.persist(context.Background())
}

func (e *Engine) RecordTaskCompleted() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress.TasksCompleted++
	e.progress.DailyTasksCompleted++
	e.progress.WeeklyTasksCompleted++
	return e.award(TaskCompletedXP)
}

// RecordPomodoroSessionCompleted credits one finished work phase.
// Non-positive focusMinutes count as DefaultFocusMinutes.
func (e *Engine) RecordPomodoroSessionCompleted(focusMinutes int) Outcome {
	if focusMinutes <= 0 {
		focusMinutes = DefaultFocusMinutes
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress.PomodoroSessions++
	e.progress.FocusMinutes += focusMinutes
	e.progress.DailyPomodoroSessions++
	e.progress.WeeklyPomodoroSessions++
	return e.award(PomodoroSessionXP)
}

func (e *Engine) RecordBreakCompleted(breakMinutes int) {
	if breakMinutes <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress.BreakMinutes += breakMinutes
	e.persist(context.Background())
}

// award runs achievement evaluation on the already-incremented counters,
// adds base plus unlock rewards, refreshes the level and then the streak.
// Caller holds e.mu.
func (e *Engine) award(base int) Outcome {
	now := e.now()
	out := Outcome{PreviousLevel: e.progress.Level}

	unlocked := e.evaluate(now)
	gained := base
	for _, a := range unlocked {
		gained += a.ExperienceReward
		e.progress.UnlockedAchievements = append(e.progress.UnlockedAchievements, a.ID)
		e.progress.NewAchievements = append(e.progress.NewAchievements, a)
	}
	e.progress.Experience += gained
	e.progress.refreshLevel()
	updateStreak(&e.progress, now)

	out.ExperienceGained = gained
	out.Unlocked = unlocked
	out.Level = e.progress.Level
	if len(unlocked) > 0 || out.LevelUp() {
		e.log.Info("progress awarded", "xp", gained, "unlocked", len(unlocked), "level", out.Level)
	}
	e.persist(context.Background())
	return out
}

func (e *Engine) evaluate(now time.Time) []UnlockedAchievement {
	var out []UnlockedAchievement
	for _, a := range catalog {
		if e.progress.isUnlocked(a.ID) {
			continue
		}
		current := Measure(a, e.progress)
		if current >= a.Requirement {
			out = append(out, UnlockedAchievement{Achievement: a, Progress: current, UnlockedAt: now})
		}
	}
	return out
}

// ClearNewAchievements marks the pending unlock notifications as seen.
func (e *Engine) ClearNewAchievements() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.progress.NewAchievements) == 0 {
		return
	}
	e.progress.NewAchievements = []UnlockedAchievement{}
	e.persist(context.Background())
}

func (e *Engine) Snapshot() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.clone()
}

func (e *Engine) NewAchievements() []UnlockedAchievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]UnlockedAchievement{}, e.progress.NewAchievements...)
}

func (e *Engine) LevelInfo() LevelInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return LevelFor(e.progress.Experience)
}

func (e *Engine) ExperienceToNextLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ExperienceToNextLevel(e.progress.Experience)
}

func (e *Engine) ProgressToNextLevelPercent() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PercentToNextLevel(e.progress.Experience)
}

// AchievementProgress is the progress toward id capped at its requirement.
// Unknown ids report 0.
func (e *Engine) AchievementProgress(id string) int {
	a, ok := FindAchievement(id)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return min(Measure(a, e.progress), a.Requirement)
}

func (e *Engine) Achievements() []AchievementStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	queued := make(map[string]time.Time, len(e.progress.NewAchievements))
	for _, n := range e.progress.NewAchievements {
		queued[n.ID] = n.UnlockedAt
	}
	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		st := AchievementStatus{
			Achievement: a,
			Unlocked:    e.progress.isUnlocked(a.ID),
			Progress:    min(Measure(a, e.progress), a.Requirement),
		}
		if at, ok := queued[a.ID]; ok {
			st.UnlockedAt = &at
		}
		out = append(out, st)
	}
	return out
}
