package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNoAccessToken  ErrorCode = "SESSION-001"
	ErrCodeNoRefreshToken ErrorCode = "SESSION-002"
	ErrCodeTokensMissing  ErrorCode = "SESSION-003"
	ErrCodeStaleSession   ErrorCode = "SESSION-004"
	ErrCodeInvalidInput   ErrorCode = "SESSION-005"

	// API errors (API-001 to API-099)
	ErrCodeRequestFailed   ErrorCode = "API-001"
	ErrCodeTransportFailed ErrorCode = "API-002"
	ErrCodeDecodeFailed    ErrorCode = "API-003"
	ErrCodeEncodeFailed    ErrorCode = "API-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-001"
	ErrCodeFileWriteFailed ErrorCode = "IO-002"
	ErrCodeDirectoryFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
)

// Kind classifies where a failure originated.
type Kind int

const (
	// KindUnknown is used for errors that were not raised by this module
	KindUnknown Kind = iota
	// KindLocalPrecondition means a required credential or input was missing
	// and no network call was attempted
	KindLocalPrecondition
	// KindNetworkFailure covers HTTP error responses and transport failures
	KindNetworkFailure
	// KindResponseShape means the call succeeded but the body lacked expected fields
	KindResponseShape
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindLocalPrecondition:
		return "local_precondition"
	case KindNetworkFailure:
		return "network_failure"
	case KindResponseShape:
		return "response_shape"
	default:
		return "unknown"
	}
}

// AppError represents an enhanced error with code, kind and suggestions
type AppError struct {
	Code    ErrorCode
	Kind    Kind
	Message string
	// Status is the HTTP status code for NetworkFailure errors, 0 otherwise
	Status      int
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError
func New(code ErrorCode, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error
func Wrap(code ErrorCode, kind Kind, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithStatus records the HTTP status that produced the error
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}

// UserMessage returns the text shown to a person in a notification: the
// backend message for API failures, the plain message for local ones.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		if appErr.Message != "" {
			return appErr.Message
		}
	}
	return err.Error()
}

// IsUnauthorized reports whether err is an HTTP 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	appErr, ok := As(err)
	if !ok || appErr.Kind != KindNetworkFailure {
		return false
	}
	return appErr.Status == http.StatusUnauthorized || appErr.Status == http.StatusForbidden
}

// Common error constructors for frequently used errors

// NewNoAccessTokenError is returned by authenticated operations when no
// access token is stored. It never reaches the network.
func NewNoAccessTokenError() *AppError {
	return New(ErrCodeNoAccessToken, KindLocalPrecondition, "not logged in").
		WithSuggestion("Run 'reciplore auth login' to start a session")
}

// NewNoRefreshTokenError is returned when a refresh is attempted without a refresh token.
func NewNoRefreshTokenError() *AppError {
	return New(ErrCodeNoRefreshToken, KindLocalPrecondition, "no refresh token available").
		WithSuggestion("Run 'reciplore auth login' to start a new session")
}

// NewTokensMissingError is returned when verify-login succeeds without issuing both tokens.
func NewTokensMissingError(missing ...string) *AppError {
	return New(ErrCodeTokensMissing, KindResponseShape,
		fmt.Sprintf("login verification returned no %s", strings.Join(missing, " or ")))
}

// NewStaleSessionError is returned when the session changed while a request was in flight.
func NewStaleSessionError(op string) *AppError {
	return New(ErrCodeStaleSession, KindLocalPrecondition,
		fmt.Sprintf("session changed while %s was in flight", op))
}

// NewInvalidInputError creates an input validation error
func NewInvalidInputError(details string) *AppError {
	return New(ErrCodeInvalidInput, KindLocalPrecondition, details)
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *AppError {
	return Wrap(ErrCodeFileUnmarshal, KindUnknown, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
