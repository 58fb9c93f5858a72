package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesorders/internal/domain/apperror"
)

// TaxRate is applied to (subtotal - discount) when recomputing totals.
const TaxRate = 0.02

// Order is the sales-order aggregate root. It owns its line collection;
// Subtotal, Tax and Total are always derived from the lines and the
// discount, never set directly.
type Order struct {
	ID          string
	OrderNumber string
	ClientID    string
	SellerID    string
	Status      Status
	Lines       []Line
	Subtotal    float64
	Discount    float64
	Tax         float64
	Total       float64
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Line is a single product-quantity entry owned by exactly one order.
// UnitPrice is snapshotted from the product at creation time; later price
// changes never affect existing lines.
type Line struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
	Subtotal  float64
	CreatedAt time.Time
}

// New builds a fresh order in PENDING with an empty line collection and
// zero totals.
func New(clientID, sellerID string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:          uuid.NewString(),
		OrderNumber: NewOrderNumber(),
		ClientID:    clientID,
		SellerID:    sellerID,
		Status:      StatusPending,
		Lines:       []Line{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewOrderNumber generates a unique human-facing order number of the form
// ORD-<YYYYMMDD>-<8 uppercase hex chars>.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// NewLine builds a line for an order, snapshotting the unit price.
func NewLine(orderID, productID string, quantity int, unitPrice float64) (Line, error) {
	if quantity <= 0 {
		return Line{}, apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("quantity must be at least 1, got %d", quantity),
		}
	}
	l := Line{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: time.Now().UTC(),
	}
	l.Recalculate()
	return l, nil
}

// Recalculate refreshes the line subtotal from quantity and unit price.
func (l *Line) Recalculate() {
	l.Subtotal = float64(l.Quantity) * l.UnitPrice
}

// SetStatus validates and applies a lifecycle transition.
func (o *Order) SetStatus(to Status) error {
	if err := ValidateTransition(o.Status, to); err != nil {
		return err
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Editable reports whether the order's lines may currently be mutated.
func (o *Order) Editable() bool {
	return o.Status.Editable()
}

// FindLine returns the line for a product, or nil when no such line exists.
func (o *Order) FindLine(productID string) *Line {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

// AttachLine adds the line to the collection, replacing a previous version
// of the same line (matched by id).
func (o *Order) AttachLine(line Line) {
	for i := range o.Lines {
		if o.Lines[i].ID == line.ID {
			o.Lines[i] = line
			return
		}
	}
	o.Lines = append(o.Lines, line)
}

// DetachLine removes the line with the given id from the collection so the
// aggregate never holds a reference to a deleted line.
func (o *Order) DetachLine(lineID string) {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			return
		}
	}
}

// Recompute derives subtotal, tax and total from the current line
// collection and discount. Every mutation that can affect the totals must
// call this before persisting; callers never set the derived fields.
func (o *Order) Recompute() {
	subtotal := 0.0
	for _, l := range o.Lines {
		subtotal += l.Subtotal
	}
	taxBase := subtotal - o.Discount
	o.Subtotal = subtotal
	o.Tax = taxBase * TaxRate
	o.Total = taxBase + o.Tax
	o.UpdatedAt = time.Now().UTC()
}
