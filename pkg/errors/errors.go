package errors

import (
	"fmt"
	"net/http"
)

// ParseError represents a configuration file that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// APIError represents a non-success response from the LibaasAI backend.
type APIError struct {
	Method   string
	Endpoint string
	Status   int
	Detail   string
	Err      error
}

// NewAPIError constructs an APIError for the given request.
func NewAPIError(method, endpoint string, status int, detail string) error {
	return &APIError{Method: method, Endpoint: endpoint, Status: status, Detail: detail}
}

// NewTransportError wraps a failure that prevented a response from arriving.
func NewTransportError(method, endpoint string, err error) error {
	return &APIError{Method: method, Endpoint: endpoint, Err: err}
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Status == 0 {
		return fmt.Sprintf("api error: %s %s: %v", e.Method, e.Endpoint, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error: %s %s: %d: %s", e.Method, e.Endpoint, e.Status, e.Detail)
	}
	return fmt.Sprintf("api error: %s %s: %d %s", e.Method, e.Endpoint, e.Status, http.StatusText(e.Status))
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message returns the text a person should see for this failure.
func (e *APIError) Message() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status == 0 {
		return "Could not reach the LibaasAI service"
	}
	return fmt.Sprintf("Server error (%d)", e.Status)
}

// NotFound reports whether the backend answered 404.
func (e *APIError) NotFound() bool {
	return e != nil && e.Status == http.StatusNotFound
}

// ValidationError captures input that was rejected before it reached the backend.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SessionError reports a problem reading or writing the local sign-in state.
type SessionError struct {
	Store string
	Op    string
	Err   error
}

// NewSessionError constructs a SessionError for the named store.
func NewSessionError(store, op string, err error) error {
	return &SessionError{Store: store, Op: op, Err: err}
}

func (e *SessionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Store != "" {
		return fmt.Sprintf("session error [%s] %s: %v", e.Store, e.Op, e.Err)
	}
	return fmt.Sprintf("session error %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SessionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
