package errors

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrInsufficientStock is returned by the conditional stock decrement
	// when the filter matches no document, meaning a concurrent reservation
	// claimed the units between the advisory check and the commit.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrLockHeld is returned when the advisory resource lock already exists.
	ErrLockHeld = errors.New("resource lock already held")
)
