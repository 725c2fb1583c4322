// Package ux formats command output and error messages.
package ux

import (
	"fmt"
	"strings"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a recovery suggestion to errors that do not carry one.
// Coded errors with suggestions are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := apperrors.As(err); ok {
		if len(appErr.Suggestions) > 0 {
			return err
		}

		switch {
		case appErr.Code == apperrors.ErrCodeTransportFailed:
			return NewErrorWithSuggestion(err,
				"Check that the backend is reachable at api.base_url (RECIPLORE_API_BASE_URL)")
		case apperrors.IsUnauthorized(err):
			return NewErrorWithSuggestion(err,
				"Your session may have expired. Run 'reciplore auth login' to sign in again")
		case appErr.Code == apperrors.ErrCodeStaleSession:
			return NewErrorWithSuggestion(err,
				"Run 'reciplore auth status' to see the current session, then retry")
		case appErr.Kind == apperrors.KindResponseShape:
			return NewErrorWithSuggestion(err,
				"The backend answered with an unexpected body. Check that api.base_url points at the Reciplore API")
		}
		return err
	}

	errMsg := err.Error()

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check your network connection and that the backend is running")
	}

	// Permission errors
	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check permissions on ~/.reciplore and the files inside it")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
