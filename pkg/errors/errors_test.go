package errors

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorPrefersBackendDetail(t *testing.T) {
	t.Parallel()

	err := NewAPIError("POST", "/auth/update-profile", 422, "Height must be a number")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 422, apiErr.Status)
	require.Equal(t, "Height must be a number", apiErr.Message())
	require.Contains(t, err.Error(), "/auth/update-profile")
}

func TestAPIErrorWithoutDetailReportsStatus(t *testing.T) {
	t.Parallel()

	err := NewAPIError("GET", "/auth/profile/42", 404, "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.NotFound())
	require.Equal(t, "Server error (404)", apiErr.Message())
	require.Contains(t, err.Error(), "Not Found")
}

func TestTransportErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewTransportError("GET", "/wardrobe/items/1", underlying)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "Could not reach the LibaasAI service", apiErr.Message())
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("photo", "file must be smaller than 5MB", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "photo", validationErr.Field)
	require.Contains(t, err.Error(), "smaller than 5MB")
}

func TestSessionErrorIncludesStore(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("permission denied")
	err := NewSessionError("remember", "save", underlying)

	var sessionErr *SessionError
	require.ErrorAs(t, err, &sessionErr)
	require.Equal(t, "remember", sessionErr.Store)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "[remember] save")
}
