package apperror

import (
	"fmt"
	"strings"
)

// NotFoundError means a referenced entity id does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateLineError means an order already has a line for the product.
// The caller should update the existing line's quantity instead.
type DuplicateLineError struct {
	OrderID   string
	ProductID string
}

func (e DuplicateLineError) Error() string {
	return fmt.Sprintf(
		"order %s already has a line for product %s: update the existing line's quantity instead",
		e.OrderID, e.ProductID,
	)
}

// IllegalStateError means the operation is not allowed in the order's
// current status. Required lists the statuses that would allow it; Reason
// overrides the generic message for transition-specific rules.
type IllegalStateError struct {
	Current  string
	Required []string
	Reason   string
}

func (e IllegalStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (current status %s)", e.Reason, e.Current)
	}
	return fmt.Sprintf(
		"operation requires status %s, current status is %s",
		strings.Join(e.Required, " or "), e.Current,
	)
}

// BusinessRuleError means a domain rule was violated (insufficient stock,
// product not sellable, ...).
type BusinessRuleError struct {
	Reason string
}

func (e BusinessRuleError) Error() string {
	return e.Reason
}

// InvalidArgumentError means the input itself is malformed or out of range.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return e.Reason
}

// NoLinesError signals an order that exists but has no line items yet.
// It is deliberately distinct from an empty list so callers can surface
// "nothing added to this order" as an actionable state.
type NoLinesError struct {
	OrderID string
}

func (e NoLinesError) Error() string {
	return fmt.Sprintf("order %s has no line items yet", e.OrderID)
}
