package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyInput   = errors.New("no input provided")
	ErrNotFound     = errors.New("not found")
	ErrBadResponse  = errors.New("unparseable response")
	ErrReadOnly     = errors.New("graph is in read-only mode")
	ErrUnsupported  = errors.New("operation not supported by this graph")
	ErrNameRequired = errors.New("page name is required")
)

// RemoteError reports a rejected call to a graph API.
type RemoteError struct {
	Method  string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Method, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

// Guidance is an error the user can fix (missing config, bad flags). The CLI
// prints only its message.
type Guidance struct {
	Message string
}

func (g *Guidance) Error() string { return g.Message }

// Guide builds a Guidance error.
func Guide(format string, args ...any) error {
	return &Guidance{Message: fmt.Sprintf(format, args...)}
}

// IsGuidance reports whether err wraps a Guidance.
func IsGuidance(err error) bool {
	var g *Guidance
	return errors.As(err, &g)
}
