package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/irex/internal/ir"
)

// Dump is the on-disk capture of one resolved block: the raw `view ir --json`
// payload plus the source text its span covers. Dumps are written by
// `irex dump` and read back by FileResolver for offline exploring.
type Dump struct {
	ViewIR json.RawMessage `json:"view_ir"`
	Source string          `json:"source"`
}

// FileResolver reads pre-captured block dumps from a directory.
type FileResolver struct {
	dir string
}

// NewFileResolver creates a resolver over the given dump directory.
func NewFileResolver(dir string) *FileResolver {
	return &FileResolver{dir: dir}
}

// Resolve loads the dump file for the reference.
func (r *FileResolver) Resolve(_ context.Context, ref ir.Ref) (*ir.Block, error) {
	path := filepath.Join(r.dir, DumpFileName(ref))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("resolve %s: parse %s: %w", ref, path, err)
	}

	out, err := ir.DecodeViewIR(dump.ViewIR)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	block, err := out.Block(dump.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return block, nil
}

// Targets lists the dump files available under the directory, recursively.
func (r *FileResolver) Targets() ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(r.dir, "**", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan dump dir %s: %w", r.dir, err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		rel, err := filepath.Rel(r.dir, m)
		if err != nil {
			rel = m
		}
		names[i] = rel
	}
	return names, nil
}

// WriteDump stores a dump for the reference, creating the directory as
// needed.
func WriteDump(dir string, ref ir.Ref, dump Dump) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode dump: %w", err)
	}

	path := filepath.Join(dir, DumpFileName(ref))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dump: %w", err)
	}
	return path, nil
}

// DumpFileName maps a reference to its dump file name.
func DumpFileName(ref ir.Ref) string {
	switch ref.Kind {
	case ir.RefDecl:
		return fmt.Sprintf("decl-%d.json", ref.Decl)
	case ir.RefBlock:
		return fmt.Sprintf("block-%d.json", ref.Block)
	default:
		name := strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				return r
			default:
				return '-'
			}
		}, ref.Name)
		return name + ".json"
	}
}
