package pomodoro

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/taskquest/internal/logger"
)

type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

const (
	DefaultWorkMinutes       = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
	DefaultLongBreakInterval = 4
)

type Settings struct {
	WorkMinutes       int `json:"work_minutes" mapstructure:"work_minutes" yaml:"work_minutes"`
	ShortBreakMinutes int `json:"short_break_minutes" mapstructure:"short_break_minutes" yaml:"short_break_minutes"`
	LongBreakMinutes  int `json:"long_break_minutes" mapstructure:"long_break_minutes" yaml:"long_break_minutes"`
	LongBreakInterval int `json:"long_break_interval" mapstructure:"long_break_interval" yaml:"long_break_interval"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       DefaultWorkMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
		LongBreakInterval: DefaultLongBreakInterval,
	}
}

// Normalized replaces non-positive fields with their defaults.
func (s Settings) Normalized() Settings {
	d := DefaultSettings()
	if s.WorkMinutes <= 0 {
		s.WorkMinutes = d.WorkMinutes
	}
	if s.ShortBreakMinutes <= 0 {
		s.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if s.LongBreakMinutes <= 0 {
		s.LongBreakMinutes = d.LongBreakMinutes
	}
	if s.LongBreakInterval <= 0 {
		s.LongBreakInterval = d.LongBreakInterval
	}
	return s
}

// Minutes is the configured length of phase.
func (s Settings) Minutes(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreakMinutes
	case PhaseLongBreak:
		return s.LongBreakMinutes
	default:
		return s.WorkMinutes
	}
}

func (s Settings) Seconds(p Phase) int {
	return s.Minutes(p) * 60
}

// TaskRef is the task a work session is credited to.
type TaskRef struct {
	ID    string
	Title string
}

type SessionCompleted struct {
	TaskID       string
	TaskTitle    string
	FocusMinutes int
}

type BreakCompleted struct {
	Phase   Phase
	Minutes int
}

// Transition records a phase change.
type Transition struct {
	From                  Phase
	To                    Phase
	Skipped               bool
	WorkSessionsCompleted int
}

type Notifier interface {
	Notify(title, body string) error
}

// Cue is the audible signal played on every transition.
type Cue interface {
	Play() error
}

type State struct {
	Phase                 Phase
	Status                Status
	TimeLeft              int
	Total                 int
	Progress              float64
	WorkSessionsCompleted int
	Task                  TaskRef
	Settings              Settings
}

func (s State) HasTask() bool {
	return s.Task.ID != ""
}

type Option func(*Controller)

func WithSettings(s Settings) Option {
	return func(c *Controller) { c.settings = s.Normalized() }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithCue(cue Cue) Option {
	return func(c *Controller) { c.cue = cue }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func OnSessionCompleted(fn func(SessionCompleted)) Option {
	return func(c *Controller) { c.onSession = fn }
}

func OnBreakCompleted(fn func(BreakCompleted)) Option {
	return func(c *Controller) { c.onBreak = fn }
}

// Controller runs the work/short break/long break cycle. It is safe for
// concurrent use; collaborators are invoked after the lock is released.
type Controller struct {
	mu          sync.Mutex
	settings    Settings
	phase       Phase
	status      Status
	timeLeft    int
	sessions    int
	task        TaskRef
	accountedAt time.Time
	// carry is the unaccounted part of a second held while paused.
	carry time.Duration

	now       func() time.Time
	notifier  Notifier
	cue       Cue
	onSession func(SessionCompleted)
	onBreak   func(BreakCompleted)
	log       *log.Logger
}

func New(opts ...Option) *Controller {
	c := &Controller{
		settings: DefaultSettings(),
		phase:    PhaseWork,
		status:   StatusIdle,
		now:      time.Now,
		log:      logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timeLeft = c.settings.Seconds(PhaseWork)
	return c
}

// effects are collected under the lock and delivered after it is released.
type effects struct {
	transition *Transition
	session    *SessionCompleted
	brk        *BreakCompleted
	title      string
	body       string
}

func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusRunning {
		return
	}
	if c.timeLeft <= 0 {
		c.timeLeft = c.settings.Seconds(c.phase)
	}
	c.accountedAt = c.now()
	if c.status == StatusPaused {
		c.accountedAt = c.accountedAt.Add(-c.carry)
	}
	c.carry = 0
	c.status = StatusRunning
}

func (c *Controller) Pause() {
	c.mu.Lock()
	if c.status != StatusRunning {
		c.mu.Unlock()
		return
	}
	fx := c.syncLocked()
	if c.status == StatusRunning {
		c.status = StatusPaused
		c.carry = c.now().Sub(c.accountedAt)
	}
	c.mu.Unlock()
	c.deliver(fx)
}

// Toggle starts an idle or paused timer and pauses a running one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	running := c.status == StatusRunning
	c.mu.Unlock()
	if running {
		c.Pause()
		return
	}
	c.Start()
}

func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusIdle
	c.timeLeft = c.settings.Seconds(c.phase)
	c.carry = 0
}

func (c *Controller) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusIdle
	c.phase = PhaseWork
	c.timeLeft = c.settings.Seconds(PhaseWork)
	c.sessions = 0
	c.carry = 0
}

// Tick accounts one elapsed second of a running phase.
func (c *Controller) Tick() (Transition, bool) {
	c.mu.Lock()
	if c.status != StatusRunning {
		c.mu.Unlock()
		return Transition{}, false
	}
	fx := c.advanceLocked(1)
	c.mu.Unlock()
	return c.deliver(fx)
}

// Sync applies every whole second of wall time elapsed since the last
// accounted second. Seconds left over after a transition are discarded.
func (c *Controller) Sync() (Transition, bool) {
	c.mu.Lock()
	if c.status != StatusRunning {
		c.mu.Unlock()
		return Transition{}, false
	}
	fx := c.syncLocked()
	c.mu.Unlock()
	return c.deliver(fx)
}

func (c *Controller) Skip() (Transition, bool) {
	c.mu.Lock()
	c.status = StatusIdle
	fx := c.transitionLocked(true)
	c.mu.Unlock()
	return c.deliver(fx)
}

func (c *Controller) SetTask(task TaskRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.task = task
}

func (c *Controller) ClearTask() {
	c.SetTask(TaskRef{})
}

// Deadline reports when the running phase ends on the wall clock.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusRunning {
		return time.Time{}, false
	}
	return c.accountedAt.Add(time.Duration(c.timeLeft) * time.Second), true
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.settings.Seconds(c.phase)
	progress := 0.0
	if total > 0 {
		progress = float64(total-c.timeLeft) / float64(total)
	}
	return State{
		Phase:                 c.phase,
		Status:                c.status,
		TimeLeft:              c.timeLeft,
		Total:                 total,
		Progress:              progress,
		WorkSessionsCompleted: c.sessions,
		Task:                  c.task,
		Settings:              c.settings,
	}
}

func (c *Controller) syncLocked() effects {
	elapsed := int(c.now().Sub(c.accountedAt) / time.Second)
	if elapsed <= 0 {
		return effects{}
	}
	return c.advanceLocked(elapsed)
}

func (c *Controller) advanceLocked(seconds int) effects {
	if seconds >= c.timeLeft {
		c.timeLeft = 0
		c.status = StatusIdle
		return c.transitionLocked(false)
	}
	c.timeLeft -= seconds
	c.accountedAt = c.accountedAt.Add(time.Duration(seconds) * time.Second)
	return effects{}
}

func (c *Controller) transitionLocked(skipped bool) effects {
	var fx effects
	from := c.phase
	c.carry = 0

	if from == PhaseWork {
		c.sessions++
		if c.task.ID != "" {
			fx.session = &SessionCompleted{
				TaskID:       c.task.ID,
				TaskTitle:    c.task.Title,
				FocusMinutes: c.settings.WorkMinutes,
			}
		}
		fx.title = "Work Session Complete!"
		if c.sessions%c.settings.LongBreakInterval == 0 {
			c.phase = PhaseLongBreak
			fx.body = "Time for a long break!"
		} else {
			c.phase = PhaseShortBreak
			fx.body = "Time for a short break!"
		}
	} else {
		if !skipped {
			fx.brk = &BreakCompleted{Phase: from, Minutes: c.settings.Minutes(from)}
		}
		c.phase = PhaseWork
		fx.title = "Break Over!"
		fx.body = "Ready to focus again?"
	}

	c.timeLeft = c.settings.Seconds(c.phase)
	fx.transition = &Transition{
		From:                  from,
		To:                    c.phase,
		Skipped:               skipped,
		WorkSessionsCompleted: c.sessions,
	}
	c.log.Debug("phase transition", "from", from, "to", c.phase, "skipped", skipped, "sessions", c.sessions)
	return fx
}

func (c *Controller) deliver(fx effects) (Transition, bool) {
	if fx.transition == nil {
		return Transition{}, false
	}
	if c.notifier != nil {
		if err := c.notifier.Notify(fx.title, fx.body); err != nil {
			c.log.Debug("notify failed", "err", err)
		}
	}
	if c.cue != nil {
		if err := c.cue.Play(); err != nil {
			c.log.Debug("cue failed", "err", err)
		}
	}
	if fx.session != nil && c.onSession != nil {
		c.onSession(*fx.session)
	}
	if fx.brk != nil && c.onBreak != nil {
		c.onBreak(*fx.brk)
	}
	return *fx.transition, true
}
