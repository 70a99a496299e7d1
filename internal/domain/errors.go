package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoEntries     = errors.New("no pre-bundle entries")
	ErrCompilation   = errors.New("compilation failed")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindExecution     ErrorKind = "execution"
	KindCompilation   ErrorKind = "compilation"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// CompileError aggregates every message the bundler reported for one compile.
type CompileError struct {
	Messages []string
}

func (e *CompileError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return ErrCompilation.Error()
	}
	if len(e.Messages) == 1 {
		return fmt.Sprintf("%s: %s", ErrCompilation, e.Messages[0])
	}
	return fmt.Sprintf("%s with %d errors: %s", ErrCompilation, len(e.Messages), strings.Join(e.Messages, "; "))
}

func (e *CompileError) Unwrap() error {
	return ErrCompilation
}
