package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/apperr"
)

// maxAmount matches the NUMERIC(14, 2) columns.
var maxAmount = decimal.RequireFromString("999999999999.99")

// ValidateAmount checks a money value fits storage: at most two decimals and within
// NUMERIC(14, 2). Sign rules are left to the caller.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%s must have at most two decimal places: %w", field, apperr.ErrInvalidArgument)
	}

	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%s is too large: %w", field, apperr.ErrInvalidArgument)
	}

	return nil
}

// ValidatePositiveAmount additionally requires amount > 0.
func ValidatePositiveAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s must be greater than zero: %w", field, apperr.ErrInvalidArgument)
	}
	return ValidateAmount(field, amount)
}

// ValidateNonNegativeAmount additionally requires amount >= 0.
func ValidateNonNegativeAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s must not be negative: %w", field, apperr.ErrInvalidArgument)
	}
	return ValidateAmount(field, amount)
}
