package order

import (
	"context"
	"fmt"

	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
	"salesorders/internal/domain/repository"
	"salesorders/pkg/lock"
	"salesorders/pkg/logger"
)

// EventPublisher receives lifecycle transition events after they have been
// persisted. Publishing failures are logged, never propagated: the state
// change is the source of truth, the event is a notification.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
}

// UpdatePatch carries the caller-mutable order fields. Nil means "leave
// unchanged". Totals are never part of a patch; they are always derived.
type UpdatePatch struct {
	Notes    *string
	ClientID *string
}

// Service owns the order aggregate: creation, reads, status transitions,
// discount application and deletion.
type Service struct {
	orders    repository.OrderRepository
	lines     repository.OrderLineRepository
	clients   repository.ClientRepository
	users     repository.UserRepository
	locks     *lock.Keyed
	publisher EventPublisher
	log       logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	lines repository.OrderLineRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
	locks *lock.Keyed,
	publisher EventPublisher,
	log logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		lines:     lines,
		clients:   clients,
		users:     users,
		locks:     locks,
		publisher: publisher,
		log:       log,
	}
}

// CreateOrder opens a new PENDING order for a client and a seller, with an
// empty line collection and zero totals.
func (s *Service) CreateOrder(ctx context.Context, clientID, sellerID string) (*domain.Order, error) {
	ok, err := s.clients.ExistsByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("check client %s: %w", clientID, err)
	}
	if !ok {
		return nil, apperror.NotFoundError{Entity: "client", ID: clientID}
	}

	ok, err = s.users.ExistsByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("check seller %s: %w", sellerID, err)
	}
	if !ok {
		return nil, apperror.NotFoundError{Entity: "seller", ID: sellerID}
	}

	o := domain.New(clientID, sellerID)
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.log.Info("order created",
		logger.String("orderId", o.ID),
		logger.String("orderNumber", o.OrderNumber),
		logger.String("clientId", clientID),
		logger.String("sellerId", sellerID))
	return o, nil
}

// GetOrder returns the order header without its lines.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	if o == nil {
		return nil, apperror.NotFoundError{Entity: "order", ID: id}
	}
	return o, nil
}

// GetOrderWithLines returns the full aggregate, lines included.
func (s *Service) GetOrderWithLines(ctx context.Context, id string) (*domain.Order, error) {
	return s.loadAggregate(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*domain.Order, error) {
	return s.orders.FindByClientID(ctx, clientID)
}

// ListBySeller fails with NotFound when the seller id is unknown, instead
// of silently returning an empty list.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	ok, err := s.users.ExistsByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("check seller %s: %w", sellerID, err)
	}
	if !ok {
		return nil, apperror.NotFoundError{Entity: "seller", ID: sellerID}
	}
	return s.orders.FindBySellerID(ctx, sellerID)
}

func (s *Service) ListByStatus(ctx context.Context, raw string) ([]*domain.Order, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByStatus(ctx, status)
}

// UpdateOrder applies caller-mutable fields. Closed orders are fully
// immutable to this operation.
func (s *Service) UpdateOrder(ctx context.Context, id string, patch UpdatePatch) (*domain.Order, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	o, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == domain.StatusClosed {
		return nil, apperror.IllegalStateError{
			Current: o.Status.String(),
			Reason:  "closed orders cannot be updated",
		}
	}

	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if patch.ClientID != nil {
		ok, err := s.clients.ExistsByID(ctx, *patch.ClientID)
		if err != nil {
			return nil, fmt.Errorf("check client %s: %w", *patch.ClientID, err)
		}
		if !ok {
			return nil, apperror.NotFoundError{Entity: "client", ID: *patch.ClientID}
		}
		o.ClientID = *patch.ClientID
	}

	o.Recompute()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return o, nil
}

// ChangeStatus applies the lifecycle state machine and persists the new
// status. On success a status-changed event is published.
func (s *Service) ChangeStatus(ctx context.Context, id string, to domain.Status) (*domain.Order, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.SetStatus(to); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	event := domain.NewStatusChangedEvent(o, from)
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.log.Error("publish status changed event failed",
			logger.String("orderId", o.ID),
			logger.Error(err))
	}

	s.log.Info("order status changed",
		logger.String("orderId", o.ID),
		logger.String("from", from.String()),
		logger.String("to", to.String()))
	return o, nil
}

// Named shortcuts over ChangeStatus.

func (s *Service) StartAddingProducts(ctx context.Context, id string) (*domain.Order, error) {
	return s.ChangeStatus(ctx, id, domain.StatusAddingProducts)
}

func (s *Service) MarkAvailableForPayment(ctx context.Context, id string) (*domain.Order, error) {
	return s.ChangeStatus(ctx, id, domain.StatusAvailableForPayment)
}

func (s *Service) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
	return s.ChangeStatus(ctx, id, domain.StatusPaid)
}

func (s *Service) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	return s.ChangeStatus(ctx, id, domain.StatusDelivered)
}

func (s *Service) Close(ctx context.Context, id string) (*domain.Order, error) {
	return s.ChangeStatus(ctx, id, domain.StatusClosed)
}

// ApplyDiscount converts a percentage into a fixed discount amount based
// on the current subtotal. Only PENDING orders can be discounted.
func (s *Service) ApplyDiscount(ctx context.Context, id string, percentage float64) (*domain.Order, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	o, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status != domain.StatusPending {
		return nil, apperror.IllegalStateError{
			Current:  o.Status.String(),
			Required: []string{domain.StatusPending.String()},
		}
	}
	if percentage <= 0 || percentage > 100 {
		return nil, apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("discount percentage must be in (0, 100], got %v", percentage),
		}
	}

	o.Recompute() // refresh subtotal from lines before deriving the amount
	o.Discount = o.Subtotal * percentage / 100
	o.Recompute()

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.log.Info("discount applied",
		logger.String("orderId", o.ID),
		logger.Float64("percentage", percentage),
		logger.Float64("amount", o.Discount))
	return o, nil
}

// DeleteOrder removes an order. Only PENDING orders may be deleted.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != domain.StatusPending {
		return apperror.IllegalStateError{
			Current:  o.Status.String(),
			Required: []string{domain.StatusPending.String()},
		}
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	s.log.Info("order deleted", logger.String("orderId", id))
	return nil
}

// loadAggregate loads an order together with its line collection so that
// recomputation never runs against a stale or partial set of lines.
func (s *Service) loadAggregate(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	if o == nil {
		return nil, apperror.NotFoundError{Entity: "order", ID: id}
	}

	lines, err := s.lines.FindByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find lines of order %s: %w", id, err)
	}
	o.Lines = lines
	return o, nil
}
