package views

import (
	"strings"
	"testing"
)

func TestRenderTasksPanelMarksState(t *testing.T) {
	out := RenderTasksPanel(TasksPanelData{
		Date: "2026-02-09",
		Items: []TaskItemData{
			{ID: "a", Title: "write report", Date: "2026-02-09"},
			{ID: "b", Title: "call bank", Date: "2026-02-09", Completed: true, Focused: true},
		},
		SelectedID: "a",
	})
	if !strings.Contains(out, "tasks: 2026-02-09") {
		t.Fatalf("expected date header, got %q", out)
	}
	if !strings.Contains(out, "> [ ] write report") {
		t.Fatalf("expected cursor on open task, got %q", out)
	}
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "🍅") {
		t.Fatalf("expected completed and focused markers, got %q", out)
	}
}

func TestRenderTasksPanelEmpty(t *testing.T) {
	out := RenderTasksPanel(TasksPanelData{})
	if !strings.Contains(out, "all days") || !strings.Contains(out, "(no tasks)") {
		t.Fatalf("unexpected empty render: %q", out)
	}
}

func TestRenderFocusPanelLongBreakCountdown(t *testing.T) {
	out := RenderFocusPanel(FocusPanelData{
		Phase:              "work",
		Status:             "running",
		Timer:              "24:59",
		CompletedPomodoros: 3,
		LongBreakInterval:  4,
	})
	if !strings.Contains(out, "long break in 1") {
		t.Fatalf("expected long break countdown, got %q", out)
	}
	if !strings.Contains(out, "none selected") {
		t.Fatalf("expected missing task hint, got %q", out)
	}
}

func TestRenderStatsPanelTopLevel(t *testing.T) {
	out := RenderStatsPanel(StatsPanelData{Level: 10, LevelTitle: "Zen Master", Experience: 40000, TopLevel: true, LevelPct: 100})
	if !strings.Contains(out, "max level") {
		t.Fatalf("expected max level marker, got %q", out)
	}
	if !strings.Contains(out, "last active: never") {
		t.Fatalf("expected never active, got %q", out)
	}
}

func TestRenderAchievementsPanelGroupsByCategory(t *testing.T) {
	out := RenderAchievementsPanel(AchievementsPanelData{
		Items: []AchievementItemData{
			{Title: "Getting Started", Category: "tasks", Unlocked: true, Reward: 50, UnlockedAt: "Feb 9 09:00"},
			{Title: "Task Warrior", Category: "tasks", Progress: 3, Requirement: 10},
			{Title: "Focus Beginner", Category: "pomodoro", Requirement: 1},
		},
		Unlocked: 1,
		Pending:  []string{"Getting Started"},
	})
	for _, want := range []string{"1/3 unlocked", "tasks:", "pomodoro:", "3/10", "new: Getting Started", "new Feb 9 09:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{0: "0m", 45: "45m", 60: "1h 0m", 125: "2h 5m", -3: "0m"}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
