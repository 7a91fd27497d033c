package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransport is matched by every TransportError via errors.Is.
var ErrTransport = errors.New("quiz backend transport failure")

// TransportError reports a rejected request, a network failure or a
// non-success response from the quiz backend.
type TransportError struct {
	Op         string // gateway operation, e.g. "next-question"
	Endpoint   string
	StatusCode int // zero when no response was received
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Op, e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Temporary reports whether the failure happened before any response
// arrived or the backend answered with a 5xx status.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}
