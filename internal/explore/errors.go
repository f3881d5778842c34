package explore

import "fmt"

// ErrKind classifies recoverable navigation failures. Every kind is surfaced
// as a transient status-bar message and leaves engine state untouched.
type ErrKind int

const (
	// ErrNothingSelected means no instruction is selected to jump from.
	ErrNothingSelected ErrKind = iota
	// ErrNoTarget means the selected instruction is not jumpable.
	ErrNoTarget
	// ErrResolutionFailed means the block resolver could not produce a block.
	ErrResolutionFailed
	// ErrAtRoot means a backward jump was attempted with only the entry
	// block on the stack.
	ErrAtRoot
	// ErrNoHistory means a backward jump was attempted with empty history.
	ErrNoHistory
	// ErrIndexOutOfRange means an explicit goto past the instruction list.
	ErrIndexOutOfRange
	// ErrInvalidGotoInput means the goto prompt text was not a non-negative
	// integer.
	ErrInvalidGotoInput
)

// NavError is a recoverable navigation failure.
type NavError struct {
	Kind   ErrKind
	Reason string
}

func (e *NavError) Error() string {
	switch e.Kind {
	case ErrNothingSelected:
		return "no instruction selected"
	case ErrNoTarget:
		return "instruction has no jump target"
	case ErrResolutionFailed:
		return fmt.Sprintf("resolution failed: %s", e.Reason)
	case ErrAtRoot:
		return "already at the entry block"
	case ErrNoHistory:
		return "no jump history"
	case ErrIndexOutOfRange:
		return "index out of range"
	case ErrInvalidGotoInput:
		return fmt.Sprintf("invalid index: %s", e.Reason)
	default:
		return "navigation error"
	}
}

func navErr(kind ErrKind) *NavError {
	return &NavError{Kind: kind}
}

func navErrf(kind ErrKind, format string, args ...any) *NavError {
	return &NavError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
