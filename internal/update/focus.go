package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		return m.toggleTimer()
	case "r":
		m.resetTimer(false)
	case "R":
		m.resetTimer(true)
	case "n":
		m.skipPhase()
	case "c":
		m.App.Timer.ClearTask()
		m.Status = StatusBar{Text: "focus task cleared; sessions will not be credited"}
	}
	return m, nil
}

func (m Model) toggleTimer() (Model, tea.Cmd) {
	if m.App.Timer.State().Status == pomodoro.StatusRunning {
		m.App.Timer.Pause()
		m.stopTimerLoop()
		m.collectTimerEvents()
		if m.App.Timer.State().Status == pomodoro.StatusPaused {
			m.Status = StatusBar{Text: "focus paused"}
		}
		return m, nil
	}
	m.App.Timer.Start()
	st := m.App.Timer.State()
	if !st.HasTask() && st.Phase == pomodoro.PhaseWork {
		m.Status = StatusBar{Text: "focus running (no task selected, session will not be credited)"}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%s running", st.Phase.Label())}
	}
	m.tickGen++
	m.scheduleAlarm()
	return m, focusTickCmd(m.tickGen)
}

func (m *Model) resetTimer(session bool) {
	if session {
		m.App.Timer.ResetSession()
		m.Status = StatusBar{Text: "pomodoro session reset"}
	} else {
		m.App.Timer.Reset()
		m.Status = StatusBar{Text: "focus reset"}
	}
	m.stopTimerLoop()
}

func (m *Model) skipPhase() {
	tr := m.App.SkipPhase()
	m.stopTimerLoop()
	m.onTransition(tr)
}

func (m Model) onFocusTick(msg FocusTickMsg) (Model, tea.Cmd) {
	if msg.Gen != m.tickGen {
		return m, nil
	}
	if tr, ok := m.App.Timer.Sync(); ok {
		m.stopTimerLoop()
		m.onTransition(tr)
		return m, nil
	}
	if m.App.Timer.State().Status != pomodoro.StatusRunning {
		return m, nil
	}
	return m, focusTickCmd(m.tickGen)
}

func (m Model) onAlarm(msg AlarmMsg) (Model, tea.Cmd) {
	if msg.Alarm.Kind == scheduler.AlarmPhaseEnd {
		if tr, ok := m.App.Timer.Sync(); ok {
			m.stopTimerLoop()
			m.onTransition(tr)
		}
	}
	if m.Scheduler != nil {
		return m, waitForAlarmCmd(m.Scheduler.C())
	}
	return m, nil
}

func (m *Model) onTransition(tr pomodoro.Transition) {
	if tr.From == pomodoro.PhaseWork {
		m.notify("Work Session Complete!", fmt.Sprintf("Session %d done; %s next", tr.WorkSessionsCompleted, tr.To.Label()), "info")
	} else {
		m.notify("Break Over!", "Ready to focus again?", "info")
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s ready; press space to start", tr.To.Label())}
	m.collectTimerEvents()
}

// collectTimerEvents reports rewards earned by the controller's handlers.
func (m *Model) collectTimerEvents() {
	for _, ev := range m.App.DrainEvents() {
		switch {
		case ev.Session != nil:
			m.applyOutcome(fmt.Sprintf("pomodoro done: %s", ev.Session.TaskTitle), ev.Outcome)
		case ev.Break != nil:
			m.notify("Break", fmt.Sprintf("%d minute %s logged", ev.Break.Minutes, ev.Break.Phase.Label()), "info")
		}
	}
}

// stopTimerLoop invalidates pending ticks and the phase alarm.
func (m *Model) stopTimerLoop() {
	m.tickGen++
	if m.Scheduler != nil {
		m.Scheduler.Cancel(phaseAlarmID)
	}
}

func (m *Model) scheduleAlarm() {
	if m.Scheduler == nil {
		return
	}
	deadline, ok := m.App.Timer.Deadline()
	if !ok {
		return
	}
	if err := m.Scheduler.Schedule(scheduler.Alarm{ID: phaseAlarmID, Kind: scheduler.AlarmPhaseEnd, FireAt: deadline}); err != nil {
		m.setError(err)
	}
}

func focusTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{Gen: gen} })
}

func waitForAlarmCmd(ch <-chan scheduler.Alarm) tea.Cmd {
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmMsg{Alarm: a}
	}
}
