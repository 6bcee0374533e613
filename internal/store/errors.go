package store

import "errors"

// Error kinds surfaced by the credential store. Callers match them with
// errors.Is; the wrapped message carries the specific reason.
var (
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrStore        = errors.New("store failure")
)
