package order

import "time"

// StatusChangedEvent is published after a successful lifecycle transition.
type StatusChangedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewStatusChangedEvent captures a transition on the given order.
func NewStatusChangedEvent(o *Order, from Status) StatusChangedEvent {
	return StatusChangedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		FromStatus:  from,
		ToStatus:    o.Status,
		OccurredAt:  time.Now().UTC(),
	}
}

// PaymentCompletedEvent is what the payment service reports when a payment
// against an order has been approved. Consumed, never produced, here.
type PaymentCompletedEvent struct {
	OrderID    string    `json:"order_id"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
