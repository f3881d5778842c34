package config

import (
	"fmt"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/irex/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		criterio.Run("nu.bin", c.Nu.Bin, notEmpty),
		criterio.Run("nu.timeout", c.Nu.Timeout, isPositiveDuration),
		c.validateKeys(),
	)
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func isPositiveDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

// validateKeys checks that every key is a single character and no two
// commands share one.
func (c *Config) validateKeys() error {
	var errs criterio.FieldErrorsBuilder

	bindings := []struct {
		field string
		key   string
	}{
		{"keys.quit", c.Keys.Quit},
		{"keys.inspect", c.Keys.Inspect},
		{"keys.goto", c.Keys.Goto},
		{"keys.back", c.Keys.Back},
		{"keys.forward", c.Keys.Forward},
		{"keys.up", c.Keys.Up},
		{"keys.down", c.Keys.Down},
	}

	seen := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if len([]rune(b.key)) != 1 {
			errs = errs.Append(b.field, fmt.Errorf("must be a single character, got %q", b.key))
			continue
		}
		if prev, dup := seen[b.key]; dup {
			errs = errs.Append(b.field, fmt.Errorf("key %q already bound to %s", b.key, prev))
			continue
		}
		seen[b.key] = b.field
	}

	return errs.ToError()
}
