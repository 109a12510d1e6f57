package profile

import (
	"errors"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

// errorMessage picks the text to show for err.
func errorMessage(err error, fallback string) string {
	var apiErr *liberrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	var vErr *liberrors.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
