package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.Palette.Input = m.commandInput.Value() + string(msg.Runes)
			return m, nil
		case tea.KeySpace:
			m.Palette.Input = m.commandInput.Value() + " "
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			date := a.Date
			if date == "" {
				date = m.Tasks.Date
			}
			if err := m.addTask(a.Title, date); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			return commands.Result{Message: m.Status.Text}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.editTask(id, a.Title, a.Date); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.completeTask(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Reopen: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.reopenTask(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Focus: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.selectForFocus(id); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewFocus
			return commands.Result{Message: m.Status.Text}, nil
		},
		Skip: func() (commands.Result, error) {
			m.skipPhase()
			return commands.Result{Message: m.Status.Text}, nil
		},
		Reset: func(a commands.ResetArgs) (commands.Result, error) {
			m.resetTimer(a.Session)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Ack: func() (commands.Result, error) {
			n := len(m.Pending)
			m.App.Engine.ClearNewAchievements()
			m.Pending = nil
			return commands.Result{Message: fmt.Sprintf("acknowledged %d achievement(s)", n)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, nil
}
