package model

import "fmt"

// DuplicateOrderError is returned when a submission reuses an order id that
// the book has already seen. The caller must generate a fresh id to retry.
type DuplicateOrderError struct {
	ID string
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order id %q already exists", e.ID)
}

// InvalidOrderError is returned for orders rejected before any state
// mutation: non-positive quantity, negative price, bad side or type.
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return "invalid order: " + e.Reason
}
