package usecase

import "errors"

// Sentinels the delivery layer maps onto stable error codes. Repository
// errors never cross the handler boundary directly.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("incompatible state")
	ErrConflict         = errors.New("conflict")
	ErrAlreadyResolved  = errors.New("already resolved")
	ErrValidationFailed = errors.New("validation failed")
)
