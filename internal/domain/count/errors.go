package count

import "errors"

var (
	// ErrSessionNotFound indicates no open session has the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrStorageRead indicates persisted sessions are unreadable or corrupt.
	ErrStorageRead = errors.New("stored sessions unreadable")
	// ErrMalformedPayload indicates an import payload failed the shape check.
	ErrMalformedPayload = errors.New("malformed import payload")
)
