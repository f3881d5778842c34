package commands

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/irex/internal/core/styles"
)

//go:embed docs/keys.md
var keysDoc string

//go:embed docs/resolver.md
var resolverDoc string

type DocCmd struct {
	flags *Flags
}

// NewDocCmd creates a new doc command.
func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

// Register adds the doc command to the application.
func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Built-in guides",
		Description: `Access built-in documentation.

Use 'irex doc keys' for the explorer key reference.
Use 'irex doc resolver' for how blocks are fetched from nu.`,
		Commands: []*cli.Command{
			{
				Name:   "keys",
				Usage:  "Show the explorer key reference",
				Action: cmd.render(keysDoc),
			},
			{
				Name:   "resolver",
				Usage:  "Show how blocks are resolved through nu",
				Action: cmd.render(resolverDoc),
			},
		},
	})
	return app
}

func (cmd *DocCmd) render(doc string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}

		out, err := r.Render(doc)
		if err != nil {
			return fmt.Errorf("render doc: %w", err)
		}

		fmt.Fprint(c.Root().Writer, out)
		return nil
	}
}
