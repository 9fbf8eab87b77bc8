package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sandeepkv93/taskquest/internal/config"
)

type ConfigInitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *Context) error {
	path := ctx.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(ctx.Out, "Wrote default config to %s\n", path)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	out, err := ctx.Config.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, out)
	return nil
}
