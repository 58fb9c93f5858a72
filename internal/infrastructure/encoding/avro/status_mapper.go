package avro

import (
	"time"

	domain "salesorders/internal/domain/order"
)

// ToStatusChangedNative converts a status change event into the native
// map shape goavro expects for the OrderStatusChanged record.
func ToStatusChangedNative(ev domain.StatusChangedEvent) map[string]interface{} {
	return map[string]interface{}{
		"order_id":     ev.OrderID,
		"order_number": ev.OrderNumber,
		"from_status":  ev.FromStatus.String(),
		"to_status":    ev.ToStatus.String(),
		"occurred_at":  ev.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}
