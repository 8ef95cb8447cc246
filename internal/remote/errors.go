package remote

import (
	"errors"
	"fmt"
)

// ErrRateLimited indicates the remote source answered 429
var ErrRateLimited = errors.New("remote source rate limit exceeded")

// ServerError represents a 5xx error from the remote source
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("remote server error: HTTP %d", e.StatusCode)
}

// StatusError is any other unexpected non-2xx answer
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
