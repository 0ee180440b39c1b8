package utils

import (
	"fmt"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
)

// ValidatePresence only checks that a value was supplied. The value itself is
// kept exactly as received: no trimming, no scheme or host checks.
func ValidatePresence(field, value string) error {
	if value == "" {
		return apperrors.NewValidationError(field, fmt.Sprintf("%s parameter is required", field))
	}
	return nil
}
