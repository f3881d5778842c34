package executil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeparatesStdoutFromStderr(t *testing.T) {
	ctx := context.Background()

	out, err := (&RealExecutor{}).Run(ctx, "sh", "-c", "echo data; echo noise >&2")
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(out), "stderr must not pollute stdout")
}

func TestRunStderrCappedAtMaxLen(t *testing.T) {
	ctx := context.Background()

	// Write twice the cap to stderr; only the first maxStderrLen bytes should
	// appear in the error.
	longStderr := strings.Repeat("A", maxStderrLen*2)
	script := fmt.Sprintf("printf '%%s' '%s' >&2; exit 1", longStderr)

	_, err := (&RealExecutor{}).Run(ctx, "sh", "-c", script)
	require.Error(t, err)
	assert.LessOrEqual(t, len(err.Error()), maxStderrLen+40, "error message should be capped")
}

func TestRunPreservesExitError(t *testing.T) {
	ctx := context.Background()

	_, err := (&RealExecutor{}).Run(ctx, "sh", "-c", "echo bad >&2; exit 1")
	require.Error(t, err)

	var exitErr *exec.ExitError
	assert.ErrorAs(t, err, &exitErr, "original ExitError should be preserved via wrapping")
	assert.Contains(t, err.Error(), "bad")
}

func TestRecordingExecutor(t *testing.T) {
	e := &RecordingExecutor{
		Outputs: map[string][]byte{"nu -c version": []byte("0.100.0")},
		Errors:  map[string]error{},
	}

	out, err := e.Run(context.Background(), "nu", "-c", "version")
	require.NoError(t, err)
	assert.Equal(t, "0.100.0", string(out))
	require.Len(t, e.Commands, 1)
	assert.Equal(t, "nu -c version", e.Commands[0].Line())

	e.Reset()
	assert.Empty(t, e.Commands)
}
