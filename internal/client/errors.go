// ABOUTME: Error types returned by the API client
// ABOUTME: Separates transport failures from non-2xx backend responses

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// TransportError means the request could not complete: network failure, timeout,
// cancellation, or a response body that could not be decoded.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is any non-2xx response from the backend
type ServerError struct {
	Status  int
	Message string
	Details string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	var serr *ServerError
	return errors.As(err, &serr) && serr.Status == http.StatusUnauthorized
}
