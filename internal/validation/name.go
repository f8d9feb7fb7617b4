package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mintreplica/mintlite/internal/apperr"
)

const maxNameLength = 100

// ValidateName validates goal and budget names
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fmt.Errorf("name is required: %w", apperr.ErrInvalidArgument)
	}

	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return fmt.Errorf("name is too long (max %d characters): %w", maxNameLength, apperr.ErrInvalidArgument)
	}

	return nil
}

// ValidateDescription allows empty descriptions up to 1000 characters.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > 1000 {
		return fmt.Errorf("description is too long (max 1000 characters): %w", apperr.ErrInvalidArgument)
	}
	return nil
}
