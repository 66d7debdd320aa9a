package storefront

import "errors"

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for non-positive amounts, quantities or
	// multiplicities and out-of-range report thresholds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyOrder is returned when checking out an order with no items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrAlreadyFinalized is returned when mutating or re-checking-out a
	// finalized order.
	ErrAlreadyFinalized = errors.New("order already finalized")
	// ErrConflict signals a transactional race on shared aggregates. Retryable.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrDivisionHazard rejects catalog writes with a non-positive
	// amount-per-unit, which would poison every later cost division.
	ErrDivisionHazard = errors.New("amount per unit must be positive")
)
