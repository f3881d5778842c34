package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/irex/internal/explore"
	"github.com/colonyops/irex/internal/ir"
	"github.com/colonyops/irex/internal/ir/resolve"
	"github.com/colonyops/irex/internal/tui"
	"github.com/colonyops/irex/pkg/executil"
)

type ExploreCmd struct {
	flags  *Flags
	target targetFlags

	dumpDir string
}

// NewExploreCmd creates a new explore command.
func NewExploreCmd(flags *Flags) *ExploreCmd {
	return &ExploreCmd{flags: flags, target: newTargetFlags()}
}

// Register adds the explore command to the application.
func (cmd *ExploreCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "explore",
		Usage:     "Interactively explore the compiled IR of a command",
		UsageText: "irex explore [options] [command-name]",
		Description: `Opens an interactive viewer over the compiled representation of a
custom command: its instruction listing side by side with the source text,
with the selected instruction's span highlighted.

Navigation follows calls into their declaration blocks and block-like
literals into their nested blocks; escape walks back out. Blocks are fetched
on demand from the nu binary, or from a dump directory captured earlier with
'irex dump' when --dump-dir is set.`,
		Flags: append(cmd.target.flags(),
			&cli.StringFlag{
				Name:        "dump-dir",
				Usage:       "explore offline from a directory of captured dumps",
				Destination: &cmd.dumpDir,
			},
		),
		Action: cmd.run,
	})
	return app
}

// Run executes the explore command. Exported for use as the default action.
func (cmd *ExploreCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ExploreCmd) run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("explore is interactive and needs a terminal on stdin and stdout")
	}

	ref, err := cmd.target.ref(c)
	if err != nil {
		return err
	}

	resolver, err := cmd.resolver()
	if err != nil {
		return err
	}

	// Resolve the entry block up front so a bad target fails before the
	// terminal is put into the alternate screen.
	entry, err := resolver.Resolve(ctx, ref)
	if err != nil {
		return cmd.entryError(ref, err)
	}

	log.Info().
		Stringer("ref", ref).
		Int("instructions", entry.Len()).
		Msg("starting explorer")

	engine := explore.New(resolver, entry)
	m := tui.New(cmd.flags.Config, engine)

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}

func (cmd *ExploreCmd) resolver() (explore.Resolver, error) {
	if cmd.dumpDir != "" {
		if _, err := os.Stat(cmd.dumpDir); err != nil {
			return nil, fmt.Errorf("dump dir: %w", err)
		}
		return resolve.NewFileResolver(cmd.dumpDir), nil
	}

	cfg := cmd.flags.Config
	return resolve.NewNuResolver(cfg.Nu.Bin, &executil.RealExecutor{}, cfg.Nu.TimeoutDuration()), nil
}

// entryError decorates an initial resolution failure; for dump directories it
// lists the targets that are available.
func (cmd *ExploreCmd) entryError(ref ir.Ref, err error) error {
	if cmd.dumpDir == "" {
		return fmt.Errorf("resolve entry point: %w", err)
	}

	fr := resolve.NewFileResolver(cmd.dumpDir)
	targets, terr := fr.Targets()
	if terr != nil || len(targets) == 0 {
		return fmt.Errorf("resolve entry point: %w", err)
	}
	return fmt.Errorf("resolve entry point %s: %w\navailable dumps:\n  %s",
		ref, err, strings.Join(targets, "\n  "))
}
