package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForAlarmCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CurrentView == ViewTasks && m.Tasks.Adding {
			return m.handleTasksKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			m.reloadTasks()
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Achievements:
			m.CurrentView = ViewAchievements
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed), nil
		case ViewFocus:
			return m.handleFocusKey(typed)
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick(typed)
	case AlarmMsg:
		return m.onAlarm(typed)
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewFocus:
		leftPane = m.renderFocusView()
	case ViewStats:
		leftPane = m.renderStatsView()
	case ViewAchievements:
		leftPane = m.renderAchievementsView()
	}
	rightPane := joinNonEmpty(m.renderCommandPalette(), m.renderStatsSummary(), m.renderHelpIfVisible())

	info := m.App.Engine.LevelInfo()
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("taskquest | view: %s | %s Lv.%d %s", m.CurrentView, info.Icon, info.Level, info.Title),
		Tabs:         []string{string(ViewTasks), string(ViewFocus), string(ViewStats), string(ViewAchievements)},
		Active:       string(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s tasks | %s focus | %s stats | %s achievements | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Focus, m.Keys.Stats, m.Keys.Achievements, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewFocus, ViewStats, ViewAchievements:
		return true
	default:
		return false
	}
}
