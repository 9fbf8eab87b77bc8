package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/commands"
	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/storage"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	if m.Tasks.Adding {
		return m.handleAddKey(msg)
	}
	switch msg.String() {
	case "up", "k":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
	case "down", "j":
		if m.Tasks.Cursor < len(m.Tasks.Items)-1 {
			m.Tasks.Cursor++
		}
	case "h", "left":
		m.shiftDate(-1)
	case "l", "right":
		m.shiftDate(1)
	case "t":
		m.Tasks.Date = m.today()
		m.reloadTasks()
	case "A":
		if m.Tasks.Date == "" {
			m.Tasks.Date = m.today()
		} else {
			m.Tasks.Date = ""
		}
		m.reloadTasks()
	case "a":
		m.Tasks.Adding = true
		m.Tasks.AddInput = ""
		m.Status = StatusBar{Text: "new task: type a title, enter to save, esc to cancel"}
	case "e":
		if task, ok := m.currentTask(); ok {
			m.Palette.Active = true
			m.Palette.Input = fmt.Sprintf("edit %s %s", shortID(task.ID), task.Title)
			m.Status = StatusBar{Text: "edit: change the title or add @YYYY-MM-DD, enter to save"}
		}
	case "x", "enter":
		if task, ok := m.currentTask(); ok {
			m.setError(m.completeTask(task.ID))
		}
	case "u":
		if task, ok := m.currentTask(); ok {
			m.setError(m.reopenTask(task.ID))
		}
	case "f":
		if task, ok := m.currentTask(); ok {
			m.setError(m.selectForFocus(task.ID))
		}
	case "d":
		if task, ok := m.currentTask(); ok {
			if err := m.App.DeleteTask(m.ctx, task.ID); err != nil {
				m.setError(err)
				return m
			}
			m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
			m.reloadTasks()
		}
	}
	return m
}

func (m Model) handleAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Tasks.Adding = false
		m.Tasks.AddInput = ""
		m.Status = StatusBar{Text: "add cancelled"}
	case "enter":
		title := strings.TrimSpace(m.addInput.Value())
		m.Tasks.Adding = false
		m.Tasks.AddInput = ""
		if title == "" {
			m.Status = StatusBar{Text: "task title is required", IsError: true}
			return m
		}
		m.setError(m.addTask(title, m.Tasks.Date))
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.Tasks.AddInput = m.addInput.Value() + string(msg.Runes)
			return m
		case tea.KeySpace:
			m.Tasks.AddInput = m.addInput.Value() + " "
			return m
		}
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		_ = cmd
		m.Tasks.AddInput = m.addInput.Value()
	}
	return m
}

func (m *Model) addTask(title, date string) error {
	task, err := m.App.AddTask(m.ctx, title, "", date)
	if err != nil {
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s (%s)", task.Title, task.Date)}
	m.reloadTasks()
	for i, item := range m.Tasks.Items {
		if item.ID == task.ID {
			m.Tasks.Cursor = i
		}
	}
	return nil
}

// editTask renames or moves a task; empty values are left unchanged.
func (m *Model) editTask(id, title, date string) error {
	var edit model.Edit
	if title != "" {
		edit.Title = &title
	}
	if date != "" {
		edit.Date = &date
	}
	task, err := m.App.UpdateTask(m.ctx, id, edit)
	if err != nil {
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("edited: %s (%s)", task.Title, task.Date)}
	m.reloadTasks()
	return nil
}

func (m *Model) completeTask(id string) error {
	task, out, err := m.App.CompleteTask(m.ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyCompleted) {
			m.Status = StatusBar{Text: fmt.Sprintf("already done: %s", task.Title)}
			return nil
		}
		return err
	}
	m.applyOutcome(fmt.Sprintf("done: %s", task.Title), out)
	m.reloadTasks()
	return nil
}

func (m *Model) reopenTask(id string) error {
	task, err := m.App.ReopenTask(m.ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotCompleted) {
			m.Status = StatusBar{Text: fmt.Sprintf("still open: %s", task.Title)}
			return nil
		}
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
	m.reloadTasks()
	return nil
}

func (m *Model) selectForFocus(id string) error {
	task, err := m.App.SelectTask(m.ctx, id)
	if err != nil {
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("focusing on: %s", task.Title)}
	return nil
}

// applyOutcome reports experience, unlocks and level changes.
func (m *Model) applyOutcome(prefix string, out gamification.Outcome) {
	parts := []string{prefix, fmt.Sprintf("+%d XP", out.ExperienceGained)}
	for _, a := range out.Unlocked {
		parts = append(parts, fmt.Sprintf("%s %s unlocked", a.Icon, a.Title))
		m.notify("Achievement Unlocked!", fmt.Sprintf("%s %s (+%d XP)", a.Icon, a.Title, a.ExperienceReward), "success")
	}
	if out.LevelUp() {
		info := gamification.LevelFor(m.App.Engine.Snapshot().Experience)
		parts = append(parts, fmt.Sprintf("level up! %s %d %s", info.Icon, info.Level, info.Title))
		m.notify("Level Up!", fmt.Sprintf("You reached level %d: %s", info.Level, info.Title), "success")
	}
	m.Status = StatusBar{Text: strings.Join(parts, " | ")}
	m.Pending = m.App.Engine.NewAchievements()
}

func (m *Model) shiftDate(days int) {
	base := m.Tasks.Date
	if base == "" {
		base = m.today()
	}
	day, err := time.Parse(model.DateLayout, base)
	if err != nil {
		day = m.now()
	}
	m.Tasks.Date = day.AddDate(0, 0, days).Format(model.DateLayout)
	m.reloadTasks()
}

func (m *Model) reloadTasks() {
	if m.App == nil {
		return
	}
	items, err := m.App.ListTasks(m.ctx, storage.TaskListFilter{Date: m.Tasks.Date})
	if err != nil {
		m.setError(err)
		return
	}
	m.Tasks.Items = items
	if m.Tasks.Cursor >= len(items) {
		m.Tasks.Cursor = len(items) - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
}

func (m Model) currentTask() (model.Task, bool) {
	if len(m.Tasks.Items) == 0 {
		return model.Task{}, false
	}
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(m.Tasks.Items) {
		return model.Task{}, false
	}
	return m.Tasks.Items[m.Tasks.Cursor], true
}

// resolveTarget maps a palette target to a task id.
func (m Model) resolveTarget(target string) (string, error) {
	if target == "" || target == commands.TargetSelected {
		task, ok := m.currentTask()
		if !ok {
			return "", errors.New("no task under the cursor")
		}
		return task.ID, nil
	}
	task, err := m.App.GetTask(m.ctx, target)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}
