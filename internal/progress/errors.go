package progress

import (
	"fmt"

	"github.com/mintreplica/mintlite/internal/apperr"
)

var (
	ErrNegativeAmount    = fmt.Errorf("amount must not be negative: %w", apperr.ErrInvalidArgument)
	ErrInvalidTarget     = fmt.Errorf("target amount must be greater than zero: %w", apperr.ErrInvalidArgument)
	ErrMissingTargetDate = fmt.Errorf("target date is required: %w", apperr.ErrInvalidArgument)
	ErrNegativeSpending  = fmt.Errorf("spent amount would become negative: %w", apperr.ErrInvalidArgument)
	ErrUnknownCategory   = fmt.Errorf("unknown budget category: %w", apperr.ErrInvalidArgument)
)
