package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or its TTL ran out.
	ErrSessionNotFound = errors.New("wizard session not found or expired")
	// ErrSubmitting rejects step mutations while a confirmation is in flight.
	ErrSubmitting = errors.New("wizard session is being submitted")
	// ErrImageLimit rejects an image batch that would exceed the cap.
	ErrImageLimit = fmt.Errorf("a maximum of %d images can be attached to an order", MaxImages)
)

// ValidationError reports a missing or malformed step input. It never
// reaches the core backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps a core backend lookup failure. It is non-fatal: the
// operator may simply retry the lookup.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
