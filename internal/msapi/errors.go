package msapi

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a selection fragment matched nothing in the
// catalog or in a discovered candidate set. Terminal; never retried.
type NotFoundError struct {
	// Kind names the funnel stage: "version", "release", "edition",
	// "language", "architecture" or "branch session".
	Kind string

	// Query is the fragment that failed to match.
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Query)
}

// TransientError wraps a failure worth retrying: connection errors,
// timeouts, empty bodies and unparseable payloads. The retry controller
// retries these; after exhaustion the last one is returned as terminal.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// APIError is a structured error returned by the vendor that does not
// match the ban sentinel. Message carries the vendor's text verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "vendor API error: " + e.Message
}

// BlockedError reports that the vendor's ban sentinel was detected.
// Message is the best-effort localized explanation (or a fixed fallback)
// with the session identifier appended for support reference.
type BlockedError struct {
	Message   string
	SessionID string
}

func (e *BlockedError) Error() string { return e.Message }

func transientErr(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

func isTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
