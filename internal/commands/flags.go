// Package commands implements the irex CLI commands.
package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/irex/internal/core/config"
)

// Flags holds the global flag state shared by all commands. Config is loaded
// in the root Before hook.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Theme      string

	Config *config.Config
}

// DefaultLogFile returns the default log file path using the system's state
// directory. On macOS: ~/Library/Logs/irex/irex.log; on Linux:
// $XDG_STATE_HOME/irex/irex.log (~/.local/state fallback).
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "irex", "irex.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "irex", "irex.log")
	}

	return filepath.Join(home, ".local", "state", "irex", "irex.log")
}
