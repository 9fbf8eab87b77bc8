// Package cli holds the taskquest command implementations run by kong.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/taskquest/internal/app"
	"github.com/sandeepkv93/taskquest/internal/config"
	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/logger"
	"github.com/sandeepkv93/taskquest/internal/notify"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
	"github.com/sandeepkv93/taskquest/internal/storage"
)

// Context is passed to every command's Run method. The application is
// opened lazily so config commands work without a database.
type Context struct {
	ConfigPath string
	Config     *config.Config
	Out        io.Writer
	Ctx        context.Context
	Now        func() time.Time

	repo *storage.SQLiteRepository
	app  *app.App
	// console routes phase notifications to Out; set by headless runs.
	console bool
}

func NewContext(configPath string, cfg *config.Config, out io.Writer) *Context {
	return &Context{
		ConfigPath: configPath,
		Config:     cfg,
		Out:        out,
		Ctx:        context.Background(),
		Now:        time.Now,
	}
}

// App opens the task database and progress store on first use.
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	dbPath := c.Config.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}

	var progress gamification.Store = repo.ProgressStore()
	if c.Config.Storage.Backend == config.BackendFile {
		progress = storage.NewFileStore(c.Config.ProgressPath())
	}

	a, err := app.New(c.Ctx, app.Options{
		Repo:       repo,
		Progress:   progress,
		Settings:   c.Config.Pomodoro,
		WeekPolicy: c.Config.WeekPolicy(),
		Notifier:   c.notifier(),
		Cue:        c.cue(),
		Now:        c.Now,
		Logger:     logger.Get(),
	})
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	c.repo = repo
	c.app = a
	logger.Debug("app opened", "db", dbPath, "progress_backend", c.Config.Storage.Backend)
	return a, nil
}

func (c *Context) notifier() pomodoro.Notifier {
	var targets notify.Multi
	if c.console {
		targets = append(targets, notify.Console{W: c.Out})
	}
	if c.Config.Notifications.Desktop {
		targets = append(targets, notify.Desktop{})
	}
	if len(targets) == 0 {
		return notify.Noop{}
	}
	return targets
}

func (c *Context) cue() pomodoro.Cue {
	switch {
	case c.Config.Notifications.Beep:
		return notify.Beep{}
	case c.Config.Notifications.Bell:
		return notify.Bell{W: os.Stderr}
	default:
		return notify.Noop{}
	}
}

func (c *Context) Close() error {
	if c.repo == nil {
		return nil
	}
	err := c.repo.Close()
	c.repo = nil
	c.app = nil
	return err
}

// FormatError renders err the way every command failure is printed.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}
