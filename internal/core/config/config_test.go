package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, "nu", cfg.Nu.Bin)
	assert.Equal(t, "q", cfg.Keys.Quit)
}

func TestLoadAppliesDefaultsForUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("theme: gruvbox\nkeys:\n  quit: x\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "j", cfg.Keys.Down, "unset keys fall back to defaults")
	assert.Equal(t, 10*time.Second, cfg.Nu.TimeoutDuration())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
	}{
		{"valid", "3s", 3 * time.Second},
		{"invalid falls back", "soon", 10 * time.Second},
		{"negative falls back", "-1s", 10 * time.Second},
		{"empty falls back", "", 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NuConfig{Timeout: tt.timeout}
			assert.Equal(t, tt.want, n.TimeoutDuration())
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := DefaultConfig()
	cfg.Theme = "gruvbox"
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", loaded.Theme)
	assert.Equal(t, cfg.Keys, loaded.Keys)
}
