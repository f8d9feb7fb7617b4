package validation

import (
	"fmt"
	"net/mail"

	"github.com/mintreplica/mintlite/internal/apperr"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	// Check length (RFC 5321: local part max 64, domain max 255, total max 254 with @)
	if len(email) > 254 {
		return fmt.Errorf("email address is too long (max 254 characters): %w", apperr.ErrInvalidArgument)
	}

	if email == "" {
		return fmt.Errorf("email address is required: %w", apperr.ErrInvalidArgument)
	}

	// Parse using Go's RFC 5322 compliant parser
	_, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address format: %w", apperr.ErrInvalidArgument)
	}

	return nil
}
