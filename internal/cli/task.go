package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/storage"
)

type TaskAddCmd struct {
	Title       []string `arg:"" optional:"" help:"Task title. Opens a form when omitted."`
	Date        string   `short:"d" help:"Day the task is planned for (YYYY-MM-DD). Defaults to today."`
	Description string   `short:"n" help:"Optional description."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	title := strings.TrimSpace(strings.Join(c.Title, " "))
	if title == "" {
		if err := c.prompt(&title); err != nil {
			return err
		}
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.AddTask(ctx.Ctx, title, c.Description, c.Date)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✅ Added %s %q for %s\n", shortID(task.ID), task.Title, task.Date)
	return nil
}

func (c *TaskAddCmd) prompt(title *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD, empty for today").
				Value(&c.Date),
			huh.NewText().
				Title("Description").
				Value(&c.Description),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("task form: %w", err)
	}
	*title = strings.TrimSpace(*title)
	return nil
}

type TaskListCmd struct {
	Date    string `short:"d" help:"Day to list (YYYY-MM-DD). Defaults to today."`
	All     bool   `short:"a" help:"List tasks for every day."`
	Pending bool   `short:"p" help:"Only show open tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	filter := storage.TaskListFilter{Date: c.Date}
	if filter.Date == "" && !c.All {
		filter.Date = ctx.Now().Format(model.DateLayout)
	}
	if c.All {
		filter.Date = ""
	}
	if c.Pending {
		open := false
		filter.Completed = &open
	}

	tasks, err := a.ListTasks(ctx.Ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(ctx.Out, "No tasks found")
		return nil
	}
	selected := a.Timer.State().Task.ID
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s  %s", mark, shortID(t.ID), t.Date, t.Title)
		if t.ID == selected {
			line += " 🍅"
		}
		fmt.Fprintln(ctx.Out, line)
	}
	return nil
}

type TaskEditCmd struct {
	ID               string `arg:"" help:"Task id or unique id prefix."`
	Title            string `short:"t" help:"New title."`
	Date             string `short:"d" help:"Move the task to this day (YYYY-MM-DD)."`
	Description      string `short:"n" help:"New description."`
	ClearDescription bool   `help:"Remove the description."`
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.GetTask(ctx.Ctx, c.ID)
	if err != nil {
		return err
	}

	edit := c.edit()
	if edit.IsZero() {
		if edit, err = c.prompt(task); err != nil {
			return err
		}
	}
	task, err = a.UpdateTask(ctx.Ctx, task.ID, edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✏️  Updated %s %q for %s\n", shortID(task.ID), task.Title, task.Date)
	return nil
}

func (c *TaskEditCmd) edit() model.Edit {
	var edit model.Edit
	if c.Title != "" {
		edit.Title = &c.Title
	}
	if c.Date != "" {
		edit.Date = &c.Date
	}
	switch {
	case c.ClearDescription:
		empty := ""
		edit.Description = &empty
	case c.Description != "":
		edit.Description = &c.Description
	}
	return edit
}

// prompt opens a form prefilled with the task's current values.
func (c *TaskEditCmd) prompt(task model.Task) (model.Edit, error) {
	title, date, description := task.Title, task.Date, task.Description
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&date),
			huh.NewText().
				Title("Description").
				Value(&description),
		),
	)
	if err := form.Run(); err != nil {
		return model.Edit{}, fmt.Errorf("task form: %w", err)
	}
	return model.Edit{Title: &title, Date: &date, Description: &description}, nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id or unique id prefix."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, out, err := a.CompleteTask(ctx.Ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "🎉 Completed %q\n", task.Title)
	printOutcome(ctx, out)
	return nil
}

type TaskReopenCmd struct {
	ID string `arg:"" help:"Task id or unique id prefix."`
}

func (c *TaskReopenCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.ReopenTask(ctx.Ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "↩️  Reopened %q\n", task.Title)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task id or unique id prefix."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.GetTask(ctx.Ctx, c.ID)
	if err != nil {
		return err
	}
	if err := a.DeleteTask(ctx.Ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "🗑️  Deleted %q\n", task.Title)
	return nil
}

func printOutcome(ctx *Context, out gamification.Outcome) {
	if out.ExperienceGained > 0 {
		fmt.Fprintf(ctx.Out, "   +%d XP\n", out.ExperienceGained)
	}
	for _, a := range out.Unlocked {
		fmt.Fprintf(ctx.Out, "   %s Achievement unlocked: %s (+%d XP)\n", a.Icon, a.Title, a.ExperienceReward)
	}
	if out.LevelUp() {
		info := levelInfo(out.Level)
		fmt.Fprintf(ctx.Out, "   %s Level up! You are now level %d: %s\n", info.Icon, info.Level, info.Title)
	}
}

func levelInfo(level int) gamification.LevelInfo {
	for _, l := range gamification.Levels() {
		if l.Level == level {
			return l
		}
	}
	return gamification.LevelFor(0)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
