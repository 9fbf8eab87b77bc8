package gamification

import (
	"context"
	"testing"
	"time"
)

func seededStore(t *testing.T, p Progress) *memStore {
	t.Helper()
	payload, err := encodeProgress(p)
	if err != nil {
		t.Fatalf("encode progress: %v", err)
	}
	return &memStore{payload: payload}
}

func busyProgress(lastActive string) Progress {
	p := DefaultProgress()
	p.DailyTasksCompleted = 3
	p.DailyPomodoroSessions = 2
	p.WeeklyTasksCompleted = 9
	p.WeeklyPomodoroSessions = 6
	p.StreakDays = 2
	p.LongestStreak = 2
	p.LastActiveDate = lastActive
	return p
}

func TestReconcileSameDayKeepsCounters(t *testing.T) {
	store := seededStore(t, busyProgress("2026-02-09"))
	e := newTestEngine(t, store, newClock())
	p := e.Snapshot()
	if p.DailyTasksCompleted != 3 || p.WeeklyTasksCompleted != 9 {
		t.Fatalf("counters must survive a same-day restart: %+v", p)
	}
	if store.saves != 0 {
		t.Fatalf("nothing changed, expected no save, got %d", store.saves)
	}
}

func TestReconcileWeekdayPolicy(t *testing.T) {
	tests := []struct {
		name        string
		lastActive  string
		weeklyReset bool
	}{
		// today is Monday 2026-02-09
		{"previous wednesday", "2026-02-04", true},
		{"yesterday sunday", "2026-02-08", false},
		{"monday one week ago", "2026-02-02", false},
		{"no history", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore(t, busyProgress(tc.lastActive))
			e := newTestEngine(t, store, newClock(), WithWeekPolicy(WeekPolicyWeekday))
			p := e.Snapshot()
			if p.DailyTasksCompleted != 0 || p.DailyPomodoroSessions != 0 {
				t.Fatalf("daily counters must reset: %+v", p)
			}
			if got := p.WeeklyTasksCompleted == 0; got != tc.weeklyReset {
				t.Fatalf("weekly reset=%v, want %v", got, tc.weeklyReset)
			}
			if p.LastActiveDate != tc.lastActive {
				t.Fatalf("reconcile must not move last active date, got %q", p.LastActiveDate)
			}
			if p.StreakDays != 2 {
				t.Fatalf("reconcile must not touch the streak, got %d", p.StreakDays)
			}
			if store.saves != 1 {
				t.Fatalf("expected reconciliation to be saved once, got %d", store.saves)
			}
		})
	}
}

func TestReconcileISOWeekPolicy(t *testing.T) {
	tests := []struct {
		name        string
		lastActive  string
		weeklyReset bool
	}{
		{"yesterday sunday", "2026-02-08", true},
		{"monday one week ago", "2026-02-02", true},
		{"no history", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, seededStore(t, busyProgress(tc.lastActive)), newClock(), WithWeekPolicy(WeekPolicyISOWeek))
			if got := e.Snapshot().WeeklyTasksCompleted == 0; got != tc.weeklyReset {
				t.Fatalf("weekly reset=%v, want %v", got, tc.weeklyReset)
			}
		})
	}

	clock := &fakeClock{t: time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC)} // Thursday
	e := newTestEngine(t, seededStore(t, busyProgress("2026-02-10")), clock, WithWeekPolicy(WeekPolicyISOWeek))
	if e.Snapshot().WeeklyTasksCompleted != 9 {
		t.Fatal("same ISO week must keep weekly counters")
	}
}

func TestReconcileRunsOnlyAtStartup(t *testing.T) {
	clock := newClock()
	e := New(context.Background(), &memStore{}, WithClock(clock.Now))
	e.RecordTaskCompleted()
	clock.advanceDays(1)
	e.RecordTaskCompleted()
	if got := e.Snapshot().DailyTasksCompleted; got != 2 {
		t.Fatalf("daily counter resets only when the engine starts, got %d", got)
	}
}

func TestParseWeekPolicy(t *testing.T) {
	for raw, want := range map[string]WeekPolicy{
		"":         WeekPolicyWeekday,
		"weekday":  WeekPolicyWeekday,
		" ISOWeek": WeekPolicyISOWeek,
	} {
		got, err := ParseWeekPolicy(raw)
		if err != nil {
			t.Fatalf("ParseWeekPolicy(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseWeekPolicy(%q)=%q, want %q", raw, got, want)
		}
	}
	if _, err := ParseWeekPolicy("monthly"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
