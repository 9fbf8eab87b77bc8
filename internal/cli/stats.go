package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/taskquest/internal/views"
)

type StatsCmd struct {
	History int `help:"Also show the last N focus sessions." default:"0"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	p := a.Engine.Snapshot()
	info := a.Engine.LevelInfo()
	pct := a.Engine.ProgressToNextLevelPercent()

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(info.Color)).
		Render(fmt.Sprintf("%s Level %d: %s", info.Icon, info.Level, info.Title))
	fmt.Fprintln(ctx.Out, title)
	if info.IsTop() {
		fmt.Fprintf(ctx.Out, "XP %d (max level)\n", p.Experience)
	} else {
		fmt.Fprintf(ctx.Out, "XP %d, %d to next level\n", p.Experience, p.ExperienceToNextLevel)
	}
	fmt.Fprintf(ctx.Out, "%s %.0f%%\n\n", textBar(pct/100, 30), pct)

	var md strings.Builder
	md.WriteString("| | today | week | total |\n|---|---|---|---|\n")
	md.WriteString(fmt.Sprintf("| tasks | %d | %d | %d |\n", p.DailyTasksCompleted, p.WeeklyTasksCompleted, p.TasksCompleted))
	md.WriteString(fmt.Sprintf("| pomodoros | %d | %d | %d |\n", p.DailyPomodoroSessions, p.WeeklyPomodoroSessions, p.PomodoroSessions))
	fmt.Fprintln(ctx.Out, views.RenderMarkdown(md.String()))

	fmt.Fprintf(ctx.Out, "\nTasks created: %d\n", p.TasksCreated)
	fmt.Fprintf(ctx.Out, "Focus time: %s, break time: %s\n", views.FormatMinutes(p.FocusMinutes), views.FormatMinutes(p.BreakMinutes))
	fmt.Fprintf(ctx.Out, "Streak: %d day(s), longest %d\n", p.StreakDays, p.LongestStreak)

	if c.History <= 0 {
		return nil
	}
	sessions, err := a.FocusHistory(ctx.Ctx, c.History)
	if err != nil {
		return fmt.Errorf("failed to load focus history: %w", err)
	}
	fmt.Fprintln(ctx.Out, "\nRecent sessions:")
	if len(sessions) == 0 {
		fmt.Fprintln(ctx.Out, "  (none)")
	}
	for _, s := range sessions {
		line := fmt.Sprintf("  %s  %-11s %3dm", s.CompletedAt.Local().Format("2006-01-02 15:04"), s.Phase, s.Minutes)
		if s.TaskID != "" {
			line += "  " + shortID(s.TaskID)
		}
		if s.Skipped {
			line += "  (skipped)"
		}
		fmt.Fprintln(ctx.Out, line)
	}
	return nil
}

type AchievementsCmd struct {
	All bool `short:"a" help:"Include locked achievements with progress."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	statuses := a.Engine.Achievements()
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(ctx.Out, "Achievements: %d/%d unlocked\n", unlocked, len(statuses))

	for _, s := range statuses {
		switch {
		case s.Unlocked:
			line := fmt.Sprintf("  %s %s: %s", s.Icon, s.Title, s.Description)
			if s.UnlockedAt != nil {
				line += fmt.Sprintf(" (new, %s)", s.UnlockedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(ctx.Out, line)
		case c.All:
			fmt.Fprintf(ctx.Out, "  🔒 %s: %s [%d/%d]\n", s.Title, s.Description, s.Progress, s.Requirement)
		}
	}
	return nil
}

type AckCmd struct{}

func (c *AckCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	pending := a.Engine.NewAchievements()
	a.Engine.ClearNewAchievements()
	fmt.Fprintf(ctx.Out, "Acknowledged %d new achievement(s)\n", len(pending))
	return nil
}

func textBar(fraction float64, width int) string {
	fraction = max(0, min(fraction, 1))
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
