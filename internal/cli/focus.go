package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sandeepkv93/taskquest/internal/app"
	"github.com/sandeepkv93/taskquest/internal/logger"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
)

const focusAlarmID = "focus-phase"

type FocusCmd struct {
	Task   string `short:"t" help:"Task id (or prefix) credited for work sessions."`
	Cycles int    `short:"c" help:"Run N work+break cycles instead of a single phase." default:"0"`
}

// phases is how many phases the run lasts.
func (c *FocusCmd) phases() int {
	if c.Cycles <= 0 {
		return 1
	}
	return 2 * c.Cycles
}

func (c *FocusCmd) Run(ctx *Context) error {
	ctx.console = true
	a, err := ctx.App()
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(ctx.Ctx, os.Interrupt)
	defer stop()

	if c.Task != "" {
		task, err := a.SelectTask(runCtx, c.Task)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "🍅 Focusing on %q\n", task.Title)
	} else {
		fmt.Fprintln(ctx.Out, "🍅 No task selected; work sessions will not earn XP")
	}

	alarms := scheduler.NewEngine(ctx.Config.Scheduler.Buffer)
	alarms.Start()
	defer alarms.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for done := 0; done < c.phases(); done++ {
		a.Timer.Start()
		if deadline, ok := a.Timer.Deadline(); ok {
			if err := alarms.Schedule(scheduler.Alarm{ID: focusAlarmID, Kind: scheduler.AlarmPhaseEnd, FireAt: deadline}); err != nil {
				logger.Warn("schedule phase alarm", "err", err)
			}
		}
		st := a.Timer.State()
		fmt.Fprintf(ctx.Out, "▶ %s (%d min)\n", st.Phase.Label(), st.Settings.Minutes(st.Phase))

		tr, err := waitForPhase(runCtx, a, alarms.C(), ticker.C, ctx)
		if err != nil {
			a.Timer.Pause()
			alarms.Cancel(focusAlarmID)
			fmt.Fprintln(ctx.Out, "\n⏸ Stopped")
			return nil
		}
		reportTransition(ctx, tr, a.DrainEvents())
	}
	return nil
}

func waitForPhase(ctx context.Context, a *app.App, alarms <-chan scheduler.Alarm, ticks <-chan time.Time, cc *Context) (pomodoro.Transition, error) {
	for {
		select {
		case <-ctx.Done():
			return pomodoro.Transition{}, ctx.Err()
		case <-alarms:
		case <-ticks:
		}
		if tr, ok := a.Timer.Sync(); ok {
			return tr, nil
		}
		st := a.Timer.State()
		fmt.Fprintf(cc.Out, "\r  %s remaining ", clock(st.TimeLeft))
	}
}

func reportTransition(ctx *Context, tr pomodoro.Transition, events []app.Event) {
	fmt.Fprintf(ctx.Out, "✔ %s finished, next: %s\n", tr.From.Label(), tr.To.Label())
	for _, ev := range events {
		if ev.Session != nil {
			fmt.Fprintf(ctx.Out, "   Session %d credited to %q\n", tr.WorkSessionsCompleted, ev.Session.TaskTitle)
			printOutcome(ctx, ev.Outcome)
		}
	}
}

func clock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
