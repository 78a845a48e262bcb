package attribute

import "errors"

var (
	ErrNotFound     = errors.New("attribute not found")
	ErrNameExists   = errors.New("attribute name already exists")
	ErrInvalidInput = errors.New("invalid attribute input")
)
