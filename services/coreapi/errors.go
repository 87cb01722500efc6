package coreapi

import "fmt"

// APIError is a non-2xx response from the core backend. Message carries the
// backend's structured error message when one was present in the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("core api request failed with status %d", e.Status)
}
