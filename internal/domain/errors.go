package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a run is started without a CSRF token.  No request may be sent without one.
	ErrMissingToken = errors.New("csrf token is missing")

	// ErrSourceExhausted is returned by a TargetSource once it has nothing more to produce
	ErrSourceExhausted = errors.New("target source exhausted")

	// ErrMalformedPage is returned by a Catalog when the upstream response does not have the expected shape
	ErrMalformedPage = errors.New("malformed catalog page")
)

// NetworkError wraps transport level failures, as opposed to the remote answering with an error status
type NetworkError struct {
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is returned when a remote answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
