package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/taskquest/internal/app"
	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
)

type View string

const (
	ViewTasks        View = "Tasks"
	ViewFocus        View = "Focus"
	ViewStats        View = "Stats"
	ViewAchievements View = "Achievements"
)

// phaseAlarmID is the single alarm slot tracking the running phase's end.
const phaseAlarmID = "phase-end"

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks        string
	Focus        string
	Stats        string
	Achievements string
	Help         string
	Quit         string
}

type TasksState struct {
	// Date is the day shown; empty lists every task.
	Date     string
	Items    []model.Task
	Cursor   int
	Adding   bool
	AddInput string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView   View
	App           *app.App
	Scheduler     *scheduler.Engine
	Tasks         TasksState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	// Pending holds unlocked achievements not yet acknowledged.
	Pending   []gamification.UnlockedAchievement
	Status    StatusBar
	Keys      GlobalKeyMap
	Quitting  bool
	LastError error

	now     func() time.Time
	ctx     context.Context
	tickGen int

	taskList     list.Model
	addInput     textinput.Model
	commandInput textinput.Model
	focusBar     progress.Model
	levelBar     progress.Model
	helpModel    help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// FocusTickMsg drives the one-second resync; Gen discards ticks from a
// timer run that has since been paused or restarted.
type FocusTickMsg struct {
	Gen int
}

type AlarmMsg struct {
	Alarm scheduler.Alarm
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithScheduler fires phase-end alarms through engine.
func WithScheduler(engine *scheduler.Engine) Option {
	return func(m *Model) { m.Scheduler = engine }
}

func NewModel(a *app.App, opts ...Option) Model {
	m := Model{
		CurrentView: ViewTasks,
		App:         a,
		now:         time.Now,
		ctx:         context.Background(),
		Keys: GlobalKeyMap{
			Tasks:        "1",
			Focus:        "2",
			Stats:        "3",
			Achievements: "4",
			Help:         "?",
			Quit:         "q",
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.Tasks.Date = m.today()
	m.initBubbleComponents()
	m.reloadTasks()
	m.Pending = a.Engine.NewAchievements()
	m.syncBubbleData()
	return m
}

func (m Model) today() string {
	return m.now().Format(model.DateLayout)
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 14)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)
	m.taskList.SetShowStatusBar(false)

	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.Placeholder = "What needs to be done?"
	m.addInput.CharLimit = 256
	m.addInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	m.levelBar = progress.New(progress.WithGradient("#10b981", "#06b6d4"), progress.WithWidth(40))
	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Tasks.Items))
	selected := ""
	if m.App != nil {
		selected = m.App.Timer.State().Task.ID
	}
	for _, task := range m.Tasks.Items {
		items = append(items, taskListItem(task, selected))
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.Tasks.Cursor)
	}

	m.addInput.SetValue(m.Tasks.AddInput)
	if m.Tasks.Adding {
		m.addInput.Focus()
	} else {
		m.addInput.Blur()
	}
	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}
}

func taskListItem(task model.Task, selectedID string) listItem {
	mark := "[ ]"
	if task.Completed {
		mark = "[x]"
	}
	title := mark + " " + task.Title
	if task.ID == selectedID {
		title += " 🍅"
	}
	desc := task.Date + " · " + shortID(task.ID)
	if task.Description != "" {
		desc += " · " + task.Description
	}
	return listItem{title: title, description: desc}
}
