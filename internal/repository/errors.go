package repository

import "errors"

var (
	// ErrNotFound is returned when a key has no stored value
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a key or value is rejected by the store
	ErrInvalidInput = errors.New("invalid input")
)
