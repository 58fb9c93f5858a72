package orderline

import (
	"context"
	"fmt"

	"salesorders/internal/application/stock"
	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
	"salesorders/internal/domain/repository"
	"salesorders/pkg/lock"
	"salesorders/pkg/logger"
)

// UpdatePatch carries the caller-mutable line fields. Only quantity is
// mutable; everything else (product, unit price) is fixed at creation.
type UpdatePatch struct {
	Quantity *int
}

// Service manages the lines of an order: create, update, delete, list.
// Every successful mutation recomputes and persists the parent order's
// totals, so the aggregate and its lines never diverge.
type Service struct {
	orders   repository.OrderRepository
	lines    repository.OrderLineRepository
	products repository.ProductRepository
	stock    *stock.Validator
	locks    *lock.Keyed
	log      logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	lines repository.OrderLineRepository,
	products repository.ProductRepository,
	stockValidator *stock.Validator,
	locks *lock.Keyed,
	log logger.Logger,
) *Service {
	return &Service{
		orders:   orders,
		lines:    lines,
		products: products,
		stock:    stockValidator,
		locks:    locks,
		log:      log,
	}
}

// CreateLine adds a product to an order. The order must be in an editable
// status, the product must be sellable with enough stock, and at most one
// line per (order, product) pair may exist.
func (s *Service) CreateLine(ctx context.Context, orderID, productID string, quantity int) (*domain.Line, error) {
	if quantity <= 0 {
		return nil, apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("quantity must be at least 1, got %d", quantity),
		}
	}

	s.locks.Lock(orderID)
	defer s.locks.Unlock(orderID)

	o, err := s.loadAggregate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(o); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	if p == nil {
		return nil, apperror.NotFoundError{Entity: "product", ID: productID}
	}

	if err := s.stock.ValidateAvailable(ctx, productID, quantity); err != nil {
		return nil, err
	}

	existing, err := s.lines.FindByOrderIDAndProductID(ctx, orderID, productID)
	if err != nil {
		return nil, fmt.Errorf("find line by order and product: %w", err)
	}
	if existing != nil {
		return nil, apperror.DuplicateLineError{OrderID: orderID, ProductID: productID}
	}

	line, err := domain.NewLine(orderID, productID, quantity, p.Price)
	if err != nil {
		return nil, err
	}

	if err := s.lines.Save(ctx, &line); err != nil {
		return nil, fmt.Errorf("save line: %w", err)
	}

	o.AttachLine(line)
	o.Recompute()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.log.Info("order line created",
		logger.String("orderId", orderID),
		logger.String("productId", productID),
		logger.Int("quantity", quantity),
		logger.Float64("subtotal", line.Subtotal))
	return &line, nil
}

// GetLine returns a single line by id.
func (s *Service) GetLine(ctx context.Context, lineID string) (*domain.Line, error) {
	line, err := s.lines.FindByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("find line %s: %w", lineID, err)
	}
	if line == nil {
		return nil, apperror.NotFoundError{Entity: "order line", ID: lineID}
	}
	return line, nil
}

// UpdateQuantity changes a line's quantity, re-validating stock and
// refreshing the line and order totals.
func (s *Service) UpdateQuantity(ctx context.Context, lineID string, quantity int) (*domain.Line, error) {
	if quantity <= 0 {
		return nil, apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("quantity must be at least 1, got %d", quantity),
		}
	}

	line, err := s.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(line.OrderID)
	defer s.locks.Unlock(line.OrderID)

	// Re-read under the lock; a concurrent mutation may have won the race.
	line, err = s.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	o, err := s.loadAggregate(ctx, line.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(o); err != nil {
		return nil, err
	}

	if err := s.stock.ValidateAvailable(ctx, line.ProductID, quantity); err != nil {
		return nil, err
	}

	line.Quantity = quantity
	line.Recalculate()

	if err := s.lines.Save(ctx, line); err != nil {
		return nil, fmt.Errorf("save line: %w", err)
	}

	o.AttachLine(*line)
	o.Recompute()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.log.Info("order line quantity updated",
		logger.String("lineId", lineID),
		logger.Int("quantity", quantity))
	return line, nil
}

// UpdateLine applies a patch to a line's mutable fields.
func (s *Service) UpdateLine(ctx context.Context, lineID string, patch UpdatePatch) (*domain.Line, error) {
	if patch.Quantity != nil {
		return s.UpdateQuantity(ctx, lineID, *patch.Quantity)
	}
	return s.GetLine(ctx, lineID)
}

// DeleteLine removes a line from its order, detaching it from the
// aggregate before deletion and recomputing the order totals.
func (s *Service) DeleteLine(ctx context.Context, lineID string) error {
	line, err := s.GetLine(ctx, lineID)
	if err != nil {
		return err
	}

	s.locks.Lock(line.OrderID)
	defer s.locks.Unlock(line.OrderID)

	line, err = s.GetLine(ctx, lineID)
	if err != nil {
		return err
	}

	o, err := s.loadAggregate(ctx, line.OrderID)
	if err != nil {
		return err
	}
	if err := s.requireEditable(o); err != nil {
		return err
	}

	o.DetachLine(line.ID)
	if err := s.lines.Delete(ctx, line.ID); err != nil {
		return fmt.Errorf("delete line %s: %w", line.ID, err)
	}

	o.Recompute()
	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}

	s.log.Info("order line deleted",
		logger.String("lineId", line.ID),
		logger.String("orderId", line.OrderID))
	return nil
}

// DeleteLineByOrderAndProduct resolves the line for a (order, product)
// pair and deletes it.
func (s *Service) DeleteLineByOrderAndProduct(ctx context.Context, orderID, productID string) error {
	line, err := s.lines.FindByOrderIDAndProductID(ctx, orderID, productID)
	if err != nil {
		return fmt.Errorf("find line by order and product: %w", err)
	}
	if line == nil {
		return apperror.NotFoundError{
			Entity: "order line",
			ID:     fmt.Sprintf("order=%s product=%s", orderID, productID),
		}
	}
	return s.DeleteLine(ctx, line.ID)
}

// ListLinesForOrder returns the lines of an order. An unknown order is a
// NotFound; an existing order with zero lines is a NoLinesError, so the
// caller can tell "empty but valid" apart from "does not exist".
func (s *Service) ListLinesForOrder(ctx context.Context, orderID string) ([]domain.Line, error) {
	ok, err := s.orders.ExistsByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("check order %s: %w", orderID, err)
	}
	if !ok {
		return nil, apperror.NotFoundError{Entity: "order", ID: orderID}
	}

	lines, err := s.lines.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find lines of order %s: %w", orderID, err)
	}
	if len(lines) == 0 {
		return nil, apperror.NoLinesError{OrderID: orderID}
	}
	return lines, nil
}

// ValidateStockAvailable is the pre-flight stock check, exposed here so
// callers can verify a cart before committing it.
func (s *Service) ValidateStockAvailable(ctx context.Context, productID string, quantity int) error {
	return s.stock.ValidateAvailable(ctx, productID, quantity)
}

func (s *Service) requireEditable(o *domain.Order) error {
	if !o.Editable() {
		return apperror.IllegalStateError{
			Current: o.Status.String(),
			Required: []string{
				domain.StatusPending.String(),
				domain.StatusAddingProducts.String(),
			},
		}
	}
	return nil
}

func (s *Service) loadAggregate(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	if o == nil {
		return nil, apperror.NotFoundError{Entity: "order", ID: orderID}
	}

	lines, err := s.lines.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find lines of order %s: %w", orderID, err)
	}
	o.Lines = lines
	return o, nil
}
