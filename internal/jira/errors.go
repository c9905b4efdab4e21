package jira

import (
	"errors"
	"fmt"
)

// AuthError means the credential is invalid, expired, or lacks the scope
// needed to read worklogs. Never retried; surfaced to the caller as-is.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "jira auth failed: " + e.Reason
}

// TransportError is any other upstream failure: a non-2xx response or a
// failed request. It carries the upstream status and body for diagnostics.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jira API error (status %d): %s", e.Status, e.Body)
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
