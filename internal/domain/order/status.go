package order

import (
	"fmt"

	"salesorders/internal/domain/apperror"
)

// Status is the order lifecycle status.
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusAddingProducts      Status = "ADDING_PRODUCTS"
	StatusAvailableForPayment Status = "AVAILABLE_FOR_PAYMENT"
	StatusPaid                Status = "PAID"
	StatusDelivered           Status = "DELIVERED"
	StatusClosed              Status = "CLOSED"
)

func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a raw string onto a known status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusAddingProducts, StatusAvailableForPayment,
		StatusPaid, StatusDelivered, StatusClosed:
		return Status(raw), nil
	default:
		return "", apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("unknown order status %q", raw),
		}
	}
}

// stageRank orders the lifecycle stages for backward-transition detection.
// The three pre-payment statuses form one stage and may move freely
// between each other.
var stageRank = map[Status]int{
	StatusPending:             0,
	StatusAddingProducts:      0,
	StatusAvailableForPayment: 0,
	StatusPaid:                1,
	StatusDelivered:           2,
	StatusClosed:              3,
}

// EditableStatuses are the only statuses in which order lines may be
// created, changed or removed. Narrower than "legal to transition from".
var EditableStatuses = []Status{StatusPending, StatusAddingProducts}

// Editable reports whether order lines may be mutated in this status.
func (s Status) Editable() bool {
	return s == StatusPending || s == StatusAddingProducts
}

// ValidateTransition applies the lifecycle rules for moving an order from
// one status to another. It returns an IllegalStateError describing the
// violated rule, or nil when the transition is legal.
func ValidateTransition(from, to Status) error {
	if from == StatusClosed {
		return apperror.IllegalStateError{
			Current: from.String(),
			Reason:  "order is closed and cannot change status",
		}
	}

	if stageRank[to] < stageRank[from] {
		return apperror.IllegalStateError{
			Current: from.String(),
			Reason:  fmt.Sprintf("cannot move order backward to %s", to),
		}
	}

	if stageRank[from] == 0 && (to == StatusDelivered || to == StatusClosed) {
		return apperror.IllegalStateError{
			Current: from.String(),
			Reason:  fmt.Sprintf("cannot skip to %s; order must be marked %s first", to, StatusPaid),
		}
	}

	if from == StatusPaid && to == StatusClosed {
		return apperror.IllegalStateError{
			Current: from.String(),
			Reason:  fmt.Sprintf("cannot close a paid order; it must be marked %s first", StatusDelivered),
		}
	}

	return nil
}
