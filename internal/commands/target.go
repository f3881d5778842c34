package commands

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/irex/internal/ir"
)

// targetFlags are the reference selectors shared by explore and dump. A
// positional argument names a custom command; the id flags address blocks
// directly.
type targetFlags struct {
	declID  int64
	blockID int64
}

// newTargetFlags starts with both ids unset so commands invoked without flag
// parsing (the root default action) still resolve by name.
func newTargetFlags() targetFlags {
	return targetFlags{declID: -1, blockID: -1}
}

func (t *targetFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "decl-id",
			Usage:       "target a declaration by id instead of by name",
			Value:       -1,
			Destination: &t.declID,
		},
		&cli.Int64Flag{
			Name:        "block-id",
			Usage:       "target a compiled block by id instead of by name",
			Value:       -1,
			Destination: &t.blockID,
		},
	}
}

// ref builds the entry reference from the selectors, enforcing that exactly
// one was given.
func (t *targetFlags) ref(c *cli.Command) (ir.Ref, error) {
	return buildRef(c.Args().First(), t.declID, t.blockID)
}

func buildRef(name string, declID, blockID int64) (ir.Ref, error) {
	given := 0
	if name != "" {
		given++
	}
	if declID >= 0 {
		given++
	}
	if blockID >= 0 {
		given++
	}

	switch {
	case given == 0:
		return ir.Ref{}, fmt.Errorf("no target: pass a command name, --decl-id, or --block-id")
	case given > 1:
		return ir.Ref{}, fmt.Errorf("ambiguous target: pass exactly one of a command name, --decl-id, or --block-id")
	case name != "":
		return ir.NameRef(name), nil
	case declID >= 0:
		return ir.DeclRef(ir.DeclID(declID)), nil
	default:
		return ir.BlockRef(ir.BlockID(blockID)), nil
	}
}
