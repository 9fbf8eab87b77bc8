package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/update"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	alarms := scheduler.NewEngine(ctx.Config.Scheduler.Buffer)
	alarms.Start()
	defer alarms.Stop()

	p := tea.NewProgram(update.NewModel(a, update.WithScheduler(alarms), update.WithClock(ctx.Now)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
