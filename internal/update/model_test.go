package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/app"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T, opts ...Option) (Model, *testClock) {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.OpenSQLite(filepath.Join(dir, "tui-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	clock := &testClock{t: time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)}
	a, err := app.New(context.Background(), app.Options{
		Repo:     repo,
		Progress: storage.NewFileStore(filepath.Join(dir, "progress.json")),
		Settings: pomodoro.Settings{WorkMinutes: 1, ShortBreakMinutes: 1},
		Now:      clock.Now,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return NewModel(a, append([]Option{WithClock(clock.Now)}, opts...)...), clock
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func addTask(t *testing.T, m Model, title string) Model {
	t.Helper()
	m, _ = send(t, m, runes("a"))
	m, _ = send(t, m, runes(title))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func typeCommand(t *testing.T, m Model, cmd string) Model {
	t.Helper()
	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes(cmd))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Tasks.Date != "2026-02-09" {
		t.Fatalf("expected today's date, got %q", m.Tasks.Date)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if len(m.Pending) != 0 {
		t.Fatalf("expected no pending achievements, got %d", len(m.Pending))
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t)
	for key, want := range map[string]View{"2": ViewFocus, "3": ViewStats, "4": ViewAchievements, "1": ViewTasks} {
		next, _ := send(t, m, runes(key))
		if next.CurrentView != want {
			t.Fatalf("key %s: expected %q, got %q", key, want, next.CurrentView)
		}
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, SwitchViewMsg{View: ViewStats})
	if m.CurrentView != ViewStats {
		t.Fatalf("expected stats view, got %q", m.CurrentView)
	}
	m, _ = send(t, m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewStats {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m, _ = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m, _ = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := send(t, m, runes("q"))
	if !m.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestAddTaskWithKeyboard(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "write tests")

	if len(m.Tasks.Items) != 1 {
		t.Fatalf("expected 1 task, got %d", len(m.Tasks.Items))
	}
	if m.Tasks.Items[0].Title != "write tests" {
		t.Fatalf("unexpected title %q", m.Tasks.Items[0].Title)
	}
	if m.Tasks.Adding {
		t.Fatal("expected add mode to close after enter")
	}
	if m.App.Engine.Snapshot().TasksCreated != 1 {
		t.Fatal("expected creation to be counted")
	}
}

func TestQuitKeyIsTypedWhileAdding(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, runes("a"))
	m, _ = send(t, m, runes("q"))
	if m.Quitting {
		t.Fatal("q should be captured by the add input")
	}
	if m.Tasks.AddInput != "q" {
		t.Fatalf("expected input q, got %q", m.Tasks.AddInput)
	}
}

func TestCompleteTaskShowsRewardsAndAck(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "first")

	m, _ = send(t, m, runes("x"))
	if !m.Tasks.Items[0].Completed {
		t.Fatal("expected task to be completed")
	}
	if !strings.Contains(m.Status.Text, "+60 XP") {
		t.Fatalf("expected reward in status, got %q", m.Status.Text)
	}
	if len(m.Pending) != 1 || m.Pending[0].ID != "first_task" {
		t.Fatalf("expected first_task pending, got %+v", m.Pending)
	}
	if len(m.Notifications) == 0 || m.Notifications[len(m.Notifications)-1].Title != "Achievement Unlocked!" {
		t.Fatalf("expected unlock notification, got %+v", m.Notifications)
	}

	m = typeCommand(t, m, "ack")
	if len(m.Pending) != 0 || len(m.App.Engine.NewAchievements()) != 0 {
		t.Fatal("expected ack to clear pending achievements")
	}
	if !strings.Contains(m.Status.Text, "acknowledged 1") {
		t.Fatalf("unexpected ack status %q", m.Status.Text)
	}
}

func TestCompleteTwiceEarnsOnce(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "once")
	m, _ = send(t, m, runes("x"))
	m, _ = send(t, m, runes("x"))
	if got := m.App.Engine.Snapshot().Experience; got != 60 {
		t.Fatalf("expected 60 XP, got %d", got)
	}
	if !strings.HasPrefix(m.Status.Text, "already done") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
}

func TestPaletteAddWithDateAndDoneByPrefix(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeCommand(t, m, "add pay rent @2026-02-10")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if len(m.Tasks.Items) != 0 {
		t.Fatalf("task for tomorrow should not show today, got %d", len(m.Tasks.Items))
	}

	m, _ = send(t, m, runes("l"))
	if m.Tasks.Date != "2026-02-10" || len(m.Tasks.Items) != 1 {
		t.Fatalf("expected tomorrow's task, date=%s items=%d", m.Tasks.Date, len(m.Tasks.Items))
	}

	prefix := shortID(m.Tasks.Items[0].ID)
	m = typeCommand(t, m, "done "+prefix)
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if !m.Tasks.Items[0].Completed {
		t.Fatal("expected task completed through palette")
	}
}

func TestEditKeyPrefillsPaletteAndMovesTask(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "deep work")
	id := m.Tasks.Items[0].ID

	m, _ = send(t, m, runes("e"))
	if !m.Palette.Active || m.Palette.Input != "edit "+shortID(id)+" deep work" {
		t.Fatalf("expected prefilled edit command, got active=%v %q", m.Palette.Active, m.Palette.Input)
	}
	m, _ = send(t, m, runes(" later @2026-02-12"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status.IsError || m.Status.Text != "edited: deep work later (2026-02-12)" {
		t.Fatalf("unexpected status %+v", m.Status)
	}
	if len(m.Tasks.Items) != 0 {
		t.Fatalf("moved task must leave today's list, got %d", len(m.Tasks.Items))
	}
	task, err := m.App.GetTask(context.Background(), id)
	if err != nil || task.Date != "2026-02-12" || task.Title != "deep work later" {
		t.Fatalf("edit not stored: %+v (%v)", task, err)
	}
	if m.App.Engine.Snapshot().Experience != 0 {
		t.Fatal("editing must not award experience")
	}

	m = typeCommand(t, m, "edit nope renamed")
	if !m.Status.IsError {
		t.Fatal("expected error for unknown task")
	}
}

func TestPaletteUnknownCommand(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeCommand(t, m, "frobnicate")
	if !m.Status.IsError {
		t.Fatal("expected error status")
	}
	if m.Palette.Active {
		t.Fatal("expected palette closed")
	}
}

func TestPaletteDoneWithoutTasksFails(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeCommand(t, m, "done")
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestToggleAllDays(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeCommand(t, m, "add later @2026-03-01")
	m, _ = send(t, m, runes("1"))
	m = addTask(t, m, "today")

	m, _ = send(t, m, runes("A"))
	if m.Tasks.Date != "" || len(m.Tasks.Items) != 2 {
		t.Fatalf("expected all tasks, date=%q items=%d", m.Tasks.Date, len(m.Tasks.Items))
	}
	m, _ = send(t, m, runes("A"))
	if m.Tasks.Date != "2026-02-09" || len(m.Tasks.Items) != 1 {
		t.Fatalf("expected today's tasks, date=%q items=%d", m.Tasks.Date, len(m.Tasks.Items))
	}
}

func TestFocusSessionCreditsSelectedTask(t *testing.T) {
	m, clock := newTestModel(t)
	m = addTask(t, m, "deep work")
	m, _ = send(t, m, runes("f"))
	m, _ = send(t, m, runes("2"))

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("expected tick command after start")
	}
	if m.App.Timer.State().Status != pomodoro.StatusRunning {
		t.Fatal("expected running timer")
	}

	clock.Advance(30 * time.Second)
	m, cmd = send(t, m, FocusTickMsg{Gen: m.tickGen})
	if cmd == nil {
		t.Fatal("expected next tick while running")
	}
	if left := m.App.Timer.State().TimeLeft; left != 30 {
		t.Fatalf("expected 30s left, got %d", left)
	}

	clock.Advance(30 * time.Second)
	m, cmd = send(t, m, FocusTickMsg{Gen: m.tickGen})
	if cmd != nil {
		t.Fatal("expected tick chain to stop after the phase ended")
	}
	st := m.App.Timer.State()
	if st.Phase != pomodoro.PhaseShortBreak || st.Status != pomodoro.StatusIdle {
		t.Fatalf("expected idle short break, got %s/%s", st.Phase, st.Status)
	}
	if got := m.App.Engine.Snapshot().PomodoroSessions; got != 1 {
		t.Fatalf("expected 1 pomodoro, got %d", got)
	}
	if len(m.Pending) != 1 || m.Pending[0].ID != "first_pomodoro" {
		t.Fatalf("expected first_pomodoro pending, got %+v", m.Pending)
	}
	if !strings.Contains(m.View(), "SHORT BREAK") {
		t.Fatal("expected view to show the break phase")
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	m, clock := newTestModel(t)
	m, _ = send(t, m, runes("2"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	stale := m.tickGen

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.App.Timer.State().Status != pomodoro.StatusPaused {
		t.Fatal("expected paused timer")
	}
	clock.Advance(2 * time.Minute)
	m, cmd := send(t, m, FocusTickMsg{Gen: stale})
	if cmd != nil {
		t.Fatal("expected stale tick to be dropped")
	}
	if m.App.Timer.State().Phase != pomodoro.PhaseWork {
		t.Fatal("paused timer must not advance")
	}
}

func TestPhaseAlarmFollowsTimer(t *testing.T) {
	alarms := scheduler.NewEngine(4)
	m, clock := newTestModel(t, WithScheduler(alarms))
	if m.Init() == nil {
		t.Fatal("expected alarm wait command from Init")
	}
	m, _ = send(t, m, runes("2"))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if alarms.Pending() != 1 {
		t.Fatalf("expected phase alarm, got %d pending", alarms.Pending())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if alarms.Pending() != 0 {
		t.Fatalf("expected alarm cancelled on pause, got %d", alarms.Pending())
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	clock.Advance(time.Minute)
	m, cmd := send(t, m, AlarmMsg{Alarm: scheduler.Alarm{ID: phaseAlarmID, Kind: scheduler.AlarmPhaseEnd, FireAt: clock.Now()}})
	if cmd == nil {
		t.Fatal("expected alarm wait to be re-armed")
	}
	if m.App.Timer.State().Phase != pomodoro.PhaseShortBreak {
		t.Fatalf("expected alarm to end the phase, got %s", m.App.Timer.State().Phase)
	}
	if alarms.Pending() != 0 {
		t.Fatalf("expected no pending alarm after transition, got %d", alarms.Pending())
	}
}

func TestSkipAndResetKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, runes("2"))
	m, _ = send(t, m, runes("n"))
	if m.App.Timer.State().Phase != pomodoro.PhaseShortBreak {
		t.Fatalf("expected skip to short break, got %s", m.App.Timer.State().Phase)
	}
	if m.App.Engine.Snapshot().PomodoroSessions != 0 {
		t.Fatal("skipping without a task must not credit a session")
	}
	m, _ = send(t, m, runes("n"))
	m, _ = send(t, m, runes("n"))
	last := m.Notifications[len(m.Notifications)-1]
	if last.Title != "Work Session Complete!" || last.Body != "Session 2 done; Short Break next" {
		t.Fatalf("unexpected session notification %+v", last)
	}

	m, _ = send(t, m, runes("R"))
	st := m.App.Timer.State()
	if st.Phase != pomodoro.PhaseWork || st.WorkSessionsCompleted != 0 {
		t.Fatalf("expected session reset, got %s with %d sessions", st.Phase, st.WorkSessionsCompleted)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _ := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"view: Tasks", "Lv.1", "status: all good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}

	m, _ = send(t, m, runes("4"))
	if !strings.Contains(m.View(), "achievements: 0/") {
		t.Fatal("expected achievements summary")
	}
	m, _ = send(t, m, runes("3"))
	if !strings.Contains(m.View(), "Novice") {
		t.Fatal("expected level title on stats view")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, runes("?"))
	if !m.HelpVisible {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(m.View(), "add task") {
		t.Fatal("expected task bindings in help")
	}
}
