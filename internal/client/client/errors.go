package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in, run \"recipebox login\" first")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Title   string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Title, e.Status)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Title, e.Message, e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}
