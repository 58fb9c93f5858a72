package product

import "time"

// Status is the product lifecycle status.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
	StatusOutOfStock   Status = "OUT_OF_STOCK"
)

func (s Status) String() string {
	return string(s)
}

// Product is a catalog entry referenced by order lines. The order flow
// reads it (price snapshot, stock check) but never mutates it.
type Product struct {
	ID          string
	Name        string
	Code        string
	Description string
	CategoryID  string
	Price       float64
	Stock       int
	Brand       string
	Warranty    string
	Status      Status
	CreatedAt   time.Time
}

// Sellable reports whether the product can be referenced by a new or
// updated order line. Only ACTIVE products are sellable.
func (p *Product) Sellable() bool {
	return p.Status == StatusActive
}
