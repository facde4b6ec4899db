package bookservice

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore/internal/book"
)

// NetworkError reports a transport failure or a non-success response from the
// catalog endpoint. StatusCode is 0 when no response was received.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets a 404 match book.ErrNotFound.
func (e *NetworkError) Is(target error) bool {
	return target == book.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNetworkError reports whether err came from the catalog endpoint.
func IsNetworkError(err error) bool {
	var nerr *NetworkError
	return errors.As(err, &nerr)
}
