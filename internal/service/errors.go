package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the core services. Handlers translate them to
// HTTP status codes; none of them is retried automatically.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("name or token already taken")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrNotEmpty         = errors.New("folder not empty")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrExpired          = errors.New("share expired")
	ErrForbidden        = errors.New("forbidden")
	ErrStorageFailure   = errors.New("storage failure")
)

// storageFailure wraps a backend error so callers can match ErrStorageFailure
// with errors.Is while keeping the underlying cause in the chain.
func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
