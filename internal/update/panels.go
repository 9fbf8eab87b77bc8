package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/views"
)

const maxNotifications = 40

func (m Model) renderTasksView() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks.Items))
	focused := m.App.Timer.State().Task.ID
	for _, t := range m.Tasks.Items {
		items = append(items, views.TaskItemData{
			ID:        t.ID,
			Title:     t.Title,
			Date:      t.Date,
			Completed: t.Completed,
			Focused:   t.ID == focused,
		})
	}
	selected := ""
	if task, ok := m.currentTask(); ok {
		selected = task.ID
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		Date:       m.Tasks.Date,
		ListView:   m.taskList.View(),
		AddView:    m.addInput.View(),
		Adding:     m.Tasks.Adding,
		Items:      items,
		SelectedID: selected,
	})
}

func (m Model) renderFocusView() string {
	st := m.App.Timer.State()
	status := string(st.Status)
	if st.Status == pomodoro.StatusIdle {
		status = "ready"
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:          st.Task.Title,
		Phase:              st.Phase.Label(),
		Status:             status,
		Timer:              formatDuration(st.TimeLeft),
		ProgressView:       m.focusBar.ViewAs(st.Progress),
		ProgressPct:        int(st.Progress * 100),
		CompletedPomodoros: st.WorkSessionsCompleted,
		LongBreakInterval:  st.Settings.LongBreakInterval,
	})
}

func (m Model) renderStatsView() string {
	p := m.App.Engine.Snapshot()
	info := gamification.LevelFor(p.Experience)
	pct := m.App.Engine.ProgressToNextLevelPercent()
	return views.RenderStatsPanel(views.StatsPanelData{
		Level:            info.Level,
		LevelTitle:       info.Title,
		LevelIcon:        info.Icon,
		LevelColor:       info.Color,
		Experience:       p.Experience,
		ToNextLevel:      p.ExperienceToNextLevel,
		TopLevel:         info.IsTop(),
		LevelBarView:     m.levelBar.ViewAs(pct / 100),
		LevelPct:         int(pct),
		TasksCompleted:   p.TasksCompleted,
		TasksCreated:     p.TasksCreated,
		PomodoroSessions: p.PomodoroSessions,
		FocusMinutes:     p.FocusMinutes,
		BreakMinutes:     p.BreakMinutes,
		DailyTasks:       p.DailyTasksCompleted,
		DailyPomodoros:   p.DailyPomodoroSessions,
		WeeklyTasks:      p.WeeklyTasksCompleted,
		WeeklyPomodoros:  p.WeeklyPomodoroSessions,
		StreakDays:       p.StreakDays,
		LongestStreak:    p.LongestStreak,
		LastActiveDate:   p.LastActiveDate,
	})
}

func (m Model) renderAchievementsView() string {
	statuses := m.App.Engine.Achievements()
	items := make([]views.AchievementItemData, 0, len(statuses))
	unlocked := 0
	for _, a := range statuses {
		if a.Unlocked {
			unlocked++
		}
		at := ""
		if a.UnlockedAt != nil {
			at = a.UnlockedAt.Format("Jan 2 15:04")
		}
		items = append(items, views.AchievementItemData{
			Icon:        a.Icon,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Progress:    a.Progress,
			Requirement: a.Requirement,
			Reward:      a.ExperienceReward,
			Unlocked:    a.Unlocked,
			UnlockedAt:  at,
		})
	}
	pending := make([]string, 0, len(m.Pending))
	for _, a := range m.Pending {
		pending = append(pending, a.Icon+" "+a.Title)
	}
	return views.RenderAchievementsPanel(views.AchievementsPanelData{
		Items:    items,
		Unlocked: unlocked,
		Pending:  pending,
	})
}

// renderStatsSummary is the compact progress block beside every view.
func (m Model) renderStatsSummary() string {
	p := m.App.Engine.Snapshot()
	info := gamification.LevelFor(p.Experience)
	lines := []string{
		fmt.Sprintf("%s %s (Lv.%d)", info.Icon, info.Title, info.Level),
		fmt.Sprintf("xp: %d | streak: %d", p.Experience, p.StreakDays),
		fmt.Sprintf("today: %d task(s), %d pomodoro(s)", p.DailyTasksCompleted, p.DailyPomodoroSessions),
	}
	if n := len(m.Pending); n > 0 {
		lines = append(lines, fmt.Sprintf("%d new achievement(s), /ack to dismiss", n))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Title+": "+n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

// setError records err on the status bar; nil is ignored.
func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), levelFromError(true))
}
