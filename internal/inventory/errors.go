package inventory

import "errors"

var (
	ErrVariationNotFound = errors.New("variation not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid inventory input")
)
