package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Callback and upstream error taxonomy
var (
	// Callback validation errors (recoverable, rendered to the user)
	ErrMissingParameters = errors.New("missing parameters")
	ErrNoSession         = errors.New("no session")
	ErrStateMismatch     = errors.New("state mismatch")
	ErrExpired           = errors.New("authorization expired")

	// Token errors
	ErrBadOAuthToken = errors.New("bad oauth token")

	// Fatal errors
	ErrUpstreamFailure    = errors.New("upstream failure")
	ErrPersistenceFailure = errors.New("persistence failure")

	// Session store errors
	ErrSessionNotFound = errors.New("session not found")

	// General errors
	ErrNotFound = errors.New("not found")
)

// MissingParametersError lists the required callback parameters that were absent,
// in the order they are required.
type MissingParametersError struct {
	Missing []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingParameters, strings.Join(e.Missing, ", "))
}

func (e *MissingParametersError) Is(target error) bool {
	return target == ErrMissingParameters
}

// UpstreamError is an unexpected HTTP response from an Amazon endpoint.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", ErrUpstreamFailure, e.Endpoint, e.Status, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
