// Package apperr holds the error kinds shared by every layer.
// Package-level sentinels wrap one of these so callers can branch with errors.Is.
package apperr

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)
