package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/irex/internal/core/styles"
	"github.com/colonyops/irex/internal/ir"
	"github.com/colonyops/irex/internal/ir/resolve"
	"github.com/colonyops/irex/pkg/executil"
)

type DumpCmd struct {
	flags  *Flags
	target targetFlags

	out string
}

// NewDumpCmd creates a new dump command.
func NewDumpCmd(flags *Flags) *DumpCmd {
	return &DumpCmd{flags: flags, target: newTargetFlags()}
}

// Register adds the dump command to the application.
func (cmd *DumpCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dump",
		Usage:     "Capture or print the compiled IR of a command",
		UsageText: "irex dump [options] [command-name]",
		Description: `Resolves a block through the nu binary and either writes it as a
dump file for offline exploring (--out), or prints the instruction listing
and highlighted source to stdout.

Dump files are read back with 'irex explore --dump-dir'.`,
		Flags: append(cmd.target.flags(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "directory to write the dump file into",
				Destination: &cmd.out,
			},
		),
		Action: cmd.run,
	})
	return app
}

func (cmd *DumpCmd) run(ctx context.Context, c *cli.Command) error {
	ref, err := cmd.target.ref(c)
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	resolver := resolve.NewNuResolver(cfg.Nu.Bin, &executil.RealExecutor{}, cfg.Nu.TimeoutDuration())

	dump, err := resolver.Dump(ctx, ref)
	if err != nil {
		return err
	}

	if cmd.out != "" {
		path, err := resolve.WriteDump(cmd.out, ref, dump)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Root().Writer, styles.TextSuccessStyle.Render("wrote "+path))
		return nil
	}

	return printDump(c.Root().Writer, ref, dump)
}

// printDump writes the instruction listing followed by the chroma-highlighted
// source block.
func printDump(w io.Writer, ref ir.Ref, dump resolve.Dump) error {
	out, err := ir.DecodeViewIR(dump.ViewIR)
	if err != nil {
		return err
	}
	block, err := out.Block(dump.Source)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# %s (block %d, %d instructions)\n\n", ref, block.ID, block.Len())
	for i, inst := range block.Instructions {
		fmt.Fprintf(w, "%4d: %s", i, inst.Formatted)
		if inst.Comment != "" {
			fmt.Fprintf(w, " # %s", inst.Comment)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, highlightSource(block.Source))
	return nil
}

// highlightSource renders nushell source through chroma for 256-color
// terminals, returning the input unchanged when highlighting fails.
func highlightSource(source string) string {
	source = strings.TrimRight(source, "\n")

	lexer := lexers.Get("nu")
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get("monokai")
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return source
	}
	return b.String()
}
