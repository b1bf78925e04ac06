package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCredential is returned by every mutation when no token is configured.
// The caller is expected to Login (or supply WithToken) first; the request
// is never sent.
var ErrNoCredential = errors.New("client: no credential configured")

// APIError is a non-2xx response from the server, with the sanitized message
// the REST surface chose to expose.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: server returned %d: %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
