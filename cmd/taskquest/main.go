package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sandeepkv93/taskquest/internal/cli"
	"github.com/sandeepkv93/taskquest/internal/config"
	"github.com/sandeepkv93/taskquest/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Defaults to ~/.taskquest/config.yaml." type:"path"`
	Debug   bool   `help:"Write debug logs to stderr."`

	Tui  cli.TuiCmd `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Task struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks."`
		Edit   cli.TaskEditCmd   `cmd:"" help:"Change a task's title, description or date."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Complete a task and collect XP."`
		Reopen cli.TaskReopenCmd `cmd:"" help:"Mark a completed task as open again."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Focus        cli.FocusCmd        `cmd:"" help:"Run the pomodoro timer in the terminal."`
	Stats        cli.StatsCmd        `cmd:"" help:"Show level, XP and counters."`
	Achievements cli.AchievementsCmd `cmd:"" help:"List achievements."`
	Ack          cli.AckCmd          `cmd:"" help:"Dismiss newly unlocked achievements."`
	Settings     struct {
		Init cli.ConfigInitCmd `cmd:"" help:"Write a default config file."`
		Show cli.ConfigShowCmd `cmd:"" help:"Print the effective config." default:"1"`
	} `cmd:"" name:"config" help:"Manage configuration."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("taskquest"),
		kong.Description("Gamified task list with a pomodoro timer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: cfg.DataDir}); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}

	appCtx := cli.NewContext(CLI.Config, cfg, os.Stdout)
	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("close storage", "err", closeErr)
	}
	if err != nil {
		logger.Error("command failed", "cmd", kctx.Command(), "err", err)
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
