package executil

import (
	"context"
	"strings"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// Line renders the command as a single line, which is also the lookup key in
// the Outputs and Errors maps.
func (c RecordedCommand) Line() string {
	return strings.Join(append([]string{c.Cmd}, c.Args...), " ")
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps, keyed by full command line, to control
// return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	Outputs map[string][]byte
	Errors  map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(_ context.Context, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := RecordedCommand{Cmd: cmd, Args: args}
	e.Commands = append(e.Commands, rec)

	var out []byte
	var err error
	if e.Outputs != nil {
		out = e.Outputs[rec.Line()]
	}
	if e.Errors != nil {
		err = e.Errors[rec.Line()]
	}
	return out, err
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
