package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskItemData struct {
	ID        string
	Title     string
	Date      string
	Completed bool
	Focused   bool
}

type TasksPanelData struct {
	// Date is the day shown; empty means every day.
	Date string
	// ListView replaces the plain item lines when set.
	ListView   string
	AddView    string
	Adding     bool
	Items      []TaskItemData
	SelectedID string
}

type FocusPanelData struct {
	TaskTitle          string
	Phase              string
	Status             string
	Timer              string
	ProgressView       string
	ProgressPct        int
	CompletedPomodoros int
	LongBreakInterval  int
}

type StatsPanelData struct {
	Level            int
	LevelTitle       string
	LevelIcon        string
	LevelColor       string
	Experience       int
	ToNextLevel      int
	TopLevel         bool
	LevelBarView     string
	LevelPct         int
	TasksCompleted   int
	TasksCreated     int
	PomodoroSessions int
	FocusMinutes     int
	BreakMinutes     int
	DailyTasks       int
	DailyPomodoros   int
	WeeklyTasks      int
	WeeklyPomodoros  int
	StreakDays       int
	LongestStreak    int
	LastActiveDate   string
}

type AchievementItemData struct {
	Icon        string
	Title       string
	Description string
	Category    string
	Progress    int
	Requirement int
	Reward      int
	Unlocked    bool
	// UnlockedAt is non-empty for unlocks not yet acknowledged.
	UnlockedAt string
}

type AchievementsPanelData struct {
	Items    []AchievementItemData
	Unlocked int
	// Pending lists unlocks not yet acknowledged.
	Pending []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	lockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unlockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	day := data.Date
	if day == "" {
		day = "all days"
	}
	b.WriteString(fmt.Sprintf("tasks: %s\n", day))
	b.WriteString("actions: [a]add [x]done [u]reopen [f]focus [d]delete [h/l]day [t]today [A]all\n")
	if data.Adding {
		b.WriteString(data.AddView + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("(no tasks)")
		return strings.TrimSpace(b.String())
	}
	if data.ListView != "" {
		b.WriteString(data.ListView)
		return strings.TrimSpace(b.String())
	}
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		mark := "[ ]"
		title := item.Title
		if item.Completed {
			mark = "[x]"
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", cursor, mark, title)
		if data.Date == "" {
			line += " " + lockedStyle.Render(item.Date)
		}
		if item.Focused {
			line += " 🍅"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected, sessions earn no XP)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s (%s)\n", strings.ToUpper(data.Phase), data.Status))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	if data.LongBreakInterval > 0 {
		next := data.LongBreakInterval - data.CompletedPomodoros%data.LongBreakInterval
		b.WriteString(fmt.Sprintf("pomodoros completed: %d (long break in %d)\n", data.CompletedPomodoros, next))
	} else {
		b.WriteString(fmt.Sprintf("pomodoros completed: %d\n", data.CompletedPomodoros))
	}
	b.WriteString("actions: [space]start/pause [r]reset [R]reset session [n]skip [c]clear task\n")
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	levelStyle := lipgloss.NewStyle().Bold(true)
	if data.LevelColor != "" {
		levelStyle = levelStyle.Foreground(lipgloss.Color(data.LevelColor))
	}

	var b strings.Builder
	b.WriteString("stats:\n")
	b.WriteString(levelStyle.Render(fmt.Sprintf("%s Level %d: %s", data.LevelIcon, data.Level, data.LevelTitle)) + "\n")
	b.WriteString(fmt.Sprintf("xp: %d", data.Experience))
	if data.TopLevel {
		b.WriteString(" (max level)\n")
	} else {
		b.WriteString(fmt.Sprintf(" (%d to next level)\n", data.ToNextLevel))
	}
	b.WriteString(fmt.Sprintf("%s %d%%\n\n", data.LevelBarView, data.LevelPct))

	var md strings.Builder
	md.WriteString("| | today | week | total |\n|---|---|---|---|\n")
	md.WriteString(fmt.Sprintf("| tasks | %d | %d | %d |\n", data.DailyTasks, data.WeeklyTasks, data.TasksCompleted))
	md.WriteString(fmt.Sprintf("| pomodoros | %d | %d | %d |\n", data.DailyPomodoros, data.WeeklyPomodoros, data.PomodoroSessions))
	b.WriteString(RenderMarkdown(md.String()) + "\n\n")

	b.WriteString(fmt.Sprintf("tasks created: %d\n", data.TasksCreated))
	b.WriteString(fmt.Sprintf("focus: %s | breaks: %s\n", FormatMinutes(data.FocusMinutes), FormatMinutes(data.BreakMinutes)))
	b.WriteString(fmt.Sprintf("streak: %d day(s) | longest: %d\n", data.StreakDays, data.LongestStreak))
	last := data.LastActiveDate
	if last == "" {
		last = "never"
	}
	b.WriteString(fmt.Sprintf("last active: %s", last))
	return b.String()
}

func RenderAchievementsPanel(data AchievementsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("achievements: %d/%d unlocked\n", data.Unlocked, len(data.Items)))
	if len(data.Pending) > 0 {
		b.WriteString(pendingStyle.Render("new: "+strings.Join(data.Pending, ", ")) + " ([/ack] to dismiss)\n")
	}
	category := ""
	for _, item := range data.Items {
		if item.Category != category {
			category = item.Category
			b.WriteString(fmt.Sprintf("\n%s:\n", category))
		}
		if item.Unlocked {
			b.WriteString(unlockStyle.Render(fmt.Sprintf("  %s %s", item.Icon, item.Title)))
			b.WriteString(fmt.Sprintf(" +%d XP", item.Reward))
			if item.UnlockedAt != "" {
				b.WriteString(pendingStyle.Render(" new " + item.UnlockedAt))
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(lockedStyle.Render(fmt.Sprintf("  %s %s: %s %d/%d", item.Icon, item.Title, item.Description, item.Progress, item.Requirement)) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help: %s\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// FormatMinutes renders a minute count as "1h 5m" or "45m".
func FormatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", max(total, 0))
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
