package avro

// StatusChangedSchema is the Avro schema for order status change events.
// Timestamps travel as RFC 3339 strings so downstream consumers do not
// depend on logical-type support.
const StatusChangedSchema = `{
	"type": "record",
	"name": "OrderStatusChanged",
	"namespace": "com.salesorders.order",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "order_number", "type": "string"},
		{"name": "from_status", "type": "string"},
		{"name": "to_status", "type": "string"},
		{"name": "occurred_at", "type": "string"}
	]
}`
