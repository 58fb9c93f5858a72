// Package memory provides map-backed repositories. They mirror the
// postgres behavior (nil on missing rows, unique (order, product) pair)
// and back the application tests and local runs without a database.
package memory

import (
	"context"
	"sync"

	"salesorders/internal/domain/apperror"
	"salesorders/internal/domain/order"
	"salesorders/internal/domain/product"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]order.Order)}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *o
	stored.Lines = nil // lines are owned by the line repository
	r.orders[o.ID] = stored
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *OrderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orders[id]
	return ok, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	return r.findWhere(func(order.Order) bool { return true }), nil
}

func (r *OrderRepository) FindByClientID(ctx context.Context, clientID string) ([]*order.Order, error) {
	return r.findWhere(func(o order.Order) bool { return o.ClientID == clientID }), nil
}

func (r *OrderRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*order.Order, error) {
	return r.findWhere(func(o order.Order) bool { return o.SellerID == sellerID }), nil
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.findWhere(func(o order.Order) bool { return o.Status == status }), nil
}

func (r *OrderRepository) findWhere(match func(order.Order) bool) []*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*order.Order, 0)
	for _, o := range r.orders {
		if match(o) {
			cp := o
			out = append(out, &cp)
		}
	}
	return out
}

type OrderLineRepository struct {
	mu    sync.RWMutex
	lines map[string]order.Line
}

func NewOrderLineRepository() *OrderLineRepository {
	return &OrderLineRepository{lines: make(map[string]order.Line)}
}

// Save enforces the unique (order, product) pair the same way the
// postgres schema does, so duplicate creation fails even if a caller
// bypasses the service-level check.
func (r *OrderLineRepository) Save(ctx context.Context, l *order.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.lines {
		if existing.ID != l.ID && existing.OrderID == l.OrderID && existing.ProductID == l.ProductID {
			return apperror.DuplicateLineError{OrderID: l.OrderID, ProductID: l.ProductID}
		}
	}
	r.lines[l.ID] = *l
	return nil
}

func (r *OrderLineRepository) FindByID(ctx context.Context, id string) (*order.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	cp := l
	return &cp, nil
}

func (r *OrderLineRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Line, 0)
	for _, l := range r.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *OrderLineRepository) FindByOrderIDAndProductID(ctx context.Context, orderID, productID string) (*order.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *OrderLineRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, id)
	return nil
}

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]product.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]product.Product)}
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *ProductRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok, nil
}

// PartyRepository answers existence checks for clients and sellers.
type PartyRepository struct {
	mu  sync.RWMutex
	ids map[string]bool
}

func NewPartyRepository(ids ...string) *PartyRepository {
	r := &PartyRepository{ids: make(map[string]bool)}
	for _, id := range ids {
		r.ids[id] = true
	}
	return r
}

func (r *PartyRepository) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = true
}

func (r *PartyRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ids[id], nil
}
