// Package resolve implements block resolvers: the live nu-backed resolver
// and the offline dump-directory resolver.
package resolve

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/irex/internal/ir"
	"github.com/colonyops/irex/pkg/executil"
)

// NuResolver materializes blocks by shelling out to the nu binary:
// `view ir --json` for the compiled block and `view span` for the source
// text the block's span covers.
type NuResolver struct {
	bin     string
	exec    executil.Executor
	timeout time.Duration
}

// NewNuResolver creates a resolver backed by the given nu binary. A zero
// timeout disables the per-call deadline.
func NewNuResolver(bin string, exec executil.Executor, timeout time.Duration) *NuResolver {
	return &NuResolver{bin: bin, exec: exec, timeout: timeout}
}

// Resolve runs view ir for the reference and assembles the block.
func (r *NuResolver) Resolve(ctx context.Context, ref ir.Ref) (*ir.Block, error) {
	raw, err := r.ViewIR(ctx, ref)
	if err != nil {
		return nil, err
	}

	out, err := ir.DecodeViewIR(raw)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	source, err := r.spanContents(ctx, out.Span)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	block, err := out.Block(source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	log.Debug().
		Stringer("ref", ref).
		Int("instructions", block.Len()).
		Msg("resolved block via nu")
	return block, nil
}

// ViewIR returns the raw `view ir --json` output for the reference. Exposed
// separately so the dump command can capture the unmodified payload.
func (r *NuResolver) ViewIR(ctx context.Context, ref ir.Ref) ([]byte, error) {
	out, err := r.run(ctx, viewIRScript(ref))
	if err != nil {
		return nil, fmt.Errorf("view ir %s: %w", ref, err)
	}
	return out, nil
}

// Dump captures the raw view ir payload and the source its span covers, in
// the schema FileResolver reads back.
func (r *NuResolver) Dump(ctx context.Context, ref ir.Ref) (Dump, error) {
	raw, err := r.ViewIR(ctx, ref)
	if err != nil {
		return Dump{}, err
	}

	out, err := ir.DecodeViewIR(raw)
	if err != nil {
		return Dump{}, fmt.Errorf("dump %s: %w", ref, err)
	}

	source, err := r.spanContents(ctx, out.Span)
	if err != nil {
		return Dump{}, fmt.Errorf("dump %s: %w", ref, err)
	}
	return Dump{ViewIR: raw, Source: source}, nil
}

func (r *NuResolver) spanContents(ctx context.Context, span ir.Span) (string, error) {
	out, err := r.run(ctx, fmt.Sprintf("view span %d %d", span.Start, span.End))
	if err != nil {
		return "", fmt.Errorf("view span: %w", err)
	}
	return string(out), nil
}

func (r *NuResolver) run(ctx context.Context, script string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.exec.Run(ctx, r.bin, "--no-config-file", "--commands", script)
}

// viewIRScript builds the nu script for one reference kind. Names go through
// the name lookup path; declaration ids use --decl-id; bare integers are
// block ids.
func viewIRScript(ref ir.Ref) string {
	switch ref.Kind {
	case ir.RefDecl:
		return fmt.Sprintf("view ir --json --decl-id %d", ref.Decl)
	case ir.RefBlock:
		return fmt.Sprintf("view ir --json %d", ref.Block)
	default:
		return fmt.Sprintf("view ir --json %s", strconv.Quote(ref.Name))
	}
}
