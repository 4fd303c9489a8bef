package model

import "fmt"

// BackendError wraps transport, quota and protocol failures surfaced by a
// backend adapter. The orchestrator treats any Send error as a BackendError;
// the raw provider message is never shown to end users.
type BackendError struct {
	Provider string // Backend provider name
	Message  string // Human-readable failure summary
	Err      error  // Underlying cause, if any
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend error (%s): %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("backend error (%s): %s", e.Provider, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError creates a BackendError with the specified details.
func NewBackendError(provider, message string, err error) *BackendError {
	return &BackendError{Provider: provider, Message: message, Err: err}
}
