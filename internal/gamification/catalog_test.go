package gamification

import "testing"

func TestLevelTableIsContiguous(t *testing.T) {
	levels := Levels()
	if len(levels) != 10 {
		t.Fatalf("expected 10 levels, got %d", len(levels))
	}
	if levels[0].MinExperience != 0 {
		t.Fatalf("first level must start at 0, got %d", levels[0].MinExperience)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Level != prev.Level+1 {
			t.Fatalf("level numbers not sequential at %d", i)
		}
		if cur.MinExperience != prev.MaxExperience+1 {
			t.Fatalf("gap between level %d and %d", prev.Level, cur.Level)
		}
	}
	if !levels[len(levels)-1].IsTop() {
		t.Fatal("top level must be unbounded")
	}
}

func TestLevelForIsMonotone(t *testing.T) {
	prev := 0
	for exp := 0; exp <= 40000; exp += 7 {
		info := LevelFor(exp)
		if info.Level < prev {
			t.Fatalf("level decreased at %d xp", exp)
		}
		if exp < info.MinExperience || (!info.IsTop() && exp > info.MaxExperience) {
			t.Fatalf("xp %d outside band of level %d", exp, info.Level)
		}
		prev = info.Level
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		exp   int
		level int
		next  int
	}{
		{0, 1, 100},
		{99, 1, 1},
		{100, 2, 150},
		{249, 2, 1},
		{250, 3, 250},
		{31999, 9, 1},
		{32000, 10, 0},
		{1000000, 10, 0},
	}
	for _, tc := range tests {
		if got := LevelFor(tc.exp).Level; got != tc.level {
			t.Fatalf("LevelFor(%d)=%d, want %d", tc.exp, got, tc.level)
		}
		if got := ExperienceToNextLevel(tc.exp); got != tc.next {
			t.Fatalf("ExperienceToNextLevel(%d)=%d, want %d", tc.exp, got, tc.next)
		}
	}
}

func TestPercentToNextLevel(t *testing.T) {
	if got := PercentToNextLevel(0); got != 0 {
		t.Fatalf("expected 0%%, got %f", got)
	}
	if got := PercentToNextLevel(32000); got != 100 {
		t.Fatalf("expected top level to report 100%%, got %f", got)
	}
	got := PercentToNextLevel(175)
	want := float64(75) / float64(149) * 100
	if got != want {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestCatalogIsWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog() {
		if seen[a.ID] {
			t.Fatalf("duplicate achievement id %s", a.ID)
		}
		seen[a.ID] = true
		if !a.Category.IsValid() {
			t.Fatalf("%s has unknown category %q", a.ID, a.Category)
		}
		if a.Requirement <= 0 || a.ExperienceReward <= 0 {
			t.Fatalf("%s must have positive requirement and reward", a.ID)
		}
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 achievements, got %d", len(seen))
	}
}

func TestEveryAchievementHasACounter(t *testing.T) {
	p := Progress{
		TasksCompleted:        1,
		PomodoroSessions:      1,
		StreakDays:            1,
		DailyTasksCompleted:   1,
		DailyPomodoroSessions: 1,
	}
	for _, a := range Catalog() {
		if Measure(a, p) != 1 {
			t.Fatalf("achievement %s (%s) is not measured by any counter", a.ID, a.Category)
		}
	}
}

func TestFindAchievement(t *testing.T) {
	a, ok := FindAchievement("streak_7")
	if !ok || a.Requirement != 7 || a.Category != CategoryStreak {
		t.Fatalf("unexpected lookup result %+v ok=%v", a, ok)
	}
	if _, ok := FindAchievement("missing"); ok {
		t.Fatal("expected unknown id to miss")
	}
}
