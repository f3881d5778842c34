package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/irex/internal/core/config"
	"github.com/colonyops/irex/internal/core/styles"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create the irex config file with an interactive wizard",
		UsageText: "irex init [options]",
		Description: `Writes the YAML config file after prompting for a theme and the nu
binary to resolve blocks with.

Use --yes to accept all defaults without prompts.
Use --force to overwrite an existing config.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if !cmd.yes {
		themeOptions := make([]huh.Option[string], 0, len(styles.ThemeNames()))
		for _, name := range styles.ThemeNames() {
			themeOptions = append(themeOptions, huh.NewOption(name, name))
		}

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&cfg.Theme),
			huh.NewInput().
				Title("Nu binary").
				Description("executable used to resolve blocks; looked up on PATH").
				Value(&cfg.Nu.Bin),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Write(path); err != nil {
		return err
	}

	fmt.Fprintln(w, styles.TextSuccessStyle.Render("wrote "+path))
	return nil
}
