package main

import (
	"errors"
	"fmt"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// backendSuggestion picks a hint for a failed backend call.
func backendSuggestion(err error) string {
	var apiErr *liberrors.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 0:
			return "Check your network connection and the configured api_url."
		case apiErr.Status == 401 || apiErr.Status == 403:
			return "Run 'libaas login' to sign in again."
		case apiErr.Status == 404:
			return "Check the id, or run 'libaas whoami' to confirm who is signed in."
		case apiErr.Status >= 500:
			return "The LibaasAI service had a problem. Try again in a moment."
		}
		return "Check the values you passed and try again."
	}
	var vErr *liberrors.ValidationError
	if errors.As(err, &vErr) {
		return "Fix the highlighted value and try again."
	}
	return "Check your network connection and the configured api_url."
}
