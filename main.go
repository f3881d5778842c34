package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/irex/internal/commands"
	"github.com/colonyops/irex/internal/core/config"
	"github.com/colonyops/irex/internal/core/styles"
	"github.com/colonyops/irex/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "irex",
		Usage:     "Explore the compiled IR of nushell commands",
		UsageText: "irex [global options] command [command options]",
		Description: `Irex is an interactive viewer for the internal representation nushell
compiles custom commands into. It shows the instruction listing next to the
source text, highlights the span of the selected instruction, and lets you
follow calls and nested blocks the way a debugger steps into functions.

Run 'irex explore <command-name>' (or just 'irex <command-name>') to start.
Run 'irex dump <command-name> --out DIR' to capture blocks for offline use.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("IREX_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (stderr when empty)",
				Sources:     cli.EnvVars("IREX_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("IREX_CONFIG"),
				Value:       config.DefaultPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme, overriding the config file",
				Sources:     cli.EnvVars("IREX_THEME"),
				Destination: &flags.Theme,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.Theme != "" {
				cfg.Theme = flags.Theme
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid config: %w", err)
				}
			}

			// Validation ensures the theme name is known.
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			flags.Config = cfg
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	exploreCmd := commands.NewExploreCmd(flags)

	app = exploreCmd.Register(app)
	app = commands.NewDumpCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewDocCmd(flags).Register(app)

	// A bare target name explores it directly.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() == 0 {
			return cli.ShowSubcommandHelp(c)
		}
		return exploreCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
