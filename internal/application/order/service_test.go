package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
	"salesorders/internal/infrastructure/persistence/memory"
	"salesorders/pkg/lock"
	"salesorders/pkg/logger"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.StatusChangedEvent
}

func (p *recordingPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	svc       *Service
	orders    *memory.OrderRepository
	lines     *memory.OrderLineRepository
	publisher *recordingPublisher
}

func newFixture() *fixture {
	orders := memory.NewOrderRepository()
	lines := memory.NewOrderLineRepository()
	clients := memory.NewPartyRepository("c1")
	users := memory.NewPartyRepository("s1")
	publisher := &recordingPublisher{}

	svc := NewService(orders, lines, clients, users, lock.NewKeyed(), publisher, logger.NewNop())
	return &fixture{svc: svc, orders: orders, lines: lines, publisher: publisher}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()

	o, err := f.svc.CreateOrder(context.Background(), "c1", "s1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, o.OrderNumber)
	assert.Zero(t, o.Subtotal)
	assert.Zero(t, o.Discount)
	assert.Zero(t, o.Tax)
	assert.Zero(t, o.Total)
	assert.Empty(t, o.Lines)
}

func TestCreateOrder_UnknownClient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), "ghost", "s1")

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "client", notFound.Entity)
}

func TestCreateOrder_UnknownSeller(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), "c1", "ghost")

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "seller", notFound.Entity)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetOrder(context.Background(), "missing")

	var notFound apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestChangeStatus_ForwardChain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.CreateOrder(ctx, "c1", "s1")
	require.NoError(t, err)

	for _, to := range []domain.Status{
		domain.StatusAddingProducts,
		domain.StatusAvailableForPayment,
		domain.StatusPaid,
		domain.StatusDelivered,
		domain.StatusClosed,
	} {
		updated, err := f.svc.ChangeStatus(ctx, o.ID, to)
		require.NoError(t, err, "transition to %s", to)
		assert.Equal(t, to, updated.Status)
	}

	assert.Len(t, f.publisher.events, 5)
	assert.Equal(t, domain.StatusPending, f.publisher.events[0].FromStatus)
	assert.Equal(t, domain.StatusClosed, f.publisher.events[4].ToStatus)
}

func TestChangeStatus_IllegalTransitionDoesNotPersist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	_, err := f.svc.ChangeStatus(ctx, o.ID, domain.StatusDelivered)

	var illegal apperror.IllegalStateError
	require.ErrorAs(t, err, &illegal)

	stored, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, f.publisher.events)
}

func TestNamedStatusShortcuts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	updated, err := f.svc.StartAddingProducts(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAddingProducts, updated.Status)

	updated, err = f.svc.MarkAvailableForPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailableForPayment, updated.Status)

	updated, err = f.svc.MarkPaid(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	updated, err = f.svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	updated, err = f.svc.Close(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, updated.Status)
}

func TestApplyDiscount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	// Seed two lines directly: 2 x 100000 + 1 x 50000 = 250000.
	l1, err := domain.NewLine(o.ID, "p1", 2, 100000)
	require.NoError(t, err)
	require.NoError(t, f.lines.Save(ctx, &l1))
	l2, err := domain.NewLine(o.ID, "p2", 1, 50000)
	require.NoError(t, err)
	require.NoError(t, f.lines.Save(ctx, &l2))

	updated, err := f.svc.ApplyDiscount(ctx, o.ID, 10)

	require.NoError(t, err)
	assert.Equal(t, 250000.0, updated.Subtotal)
	assert.Equal(t, 25000.0, updated.Discount)
	assert.Equal(t, 4500.0, updated.Tax)
	assert.Equal(t, 229500.0, updated.Total)
}

func TestApplyDiscount_InvalidPercentage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	for _, pct := range []float64{0, -5, 100.5} {
		_, err := f.svc.ApplyDiscount(ctx, o.ID, pct)
		var invalid apperror.InvalidArgumentError
		assert.ErrorAs(t, err, &invalid, "percentage %v", pct)
	}
}

func TestApplyDiscount_RequiresPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	_, err := f.svc.StartAddingProducts(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.svc.ApplyDiscount(ctx, o.ID, 10)

	var illegal apperror.IllegalStateError
	require.ErrorAs(t, err, &illegal)
	assert.Contains(t, illegal.Required, domain.StatusPending.String())
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	notes := "deliver before friday"
	updated, err := f.svc.UpdateOrder(ctx, o.ID, UpdatePatch{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
}

func TestUpdateOrder_ClosedIsImmutable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	_, err := f.svc.MarkPaid(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.svc.Close(ctx, o.ID)
	require.NoError(t, err)

	notes := "too late"
	_, err = f.svc.UpdateOrder(ctx, o.ID, UpdatePatch{Notes: &notes})

	var illegal apperror.IllegalStateError
	assert.ErrorAs(t, err, &illegal)
}

func TestDeleteOrder_OnlyPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pending, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	require.NoError(t, f.svc.DeleteOrder(ctx, pending.ID))
	_, err := f.svc.GetOrder(ctx, pending.ID)
	var notFound apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	paid, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	_, err = f.svc.MarkPaid(ctx, paid.ID)
	require.NoError(t, err)

	err = f.svc.DeleteOrder(ctx, paid.ID)
	var illegal apperror.IllegalStateError
	assert.ErrorAs(t, err, &illegal)
}

func TestListBySeller_UnknownSeller(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListBySeller(context.Background(), "ghost")

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "seller", notFound.Entity)
}

func TestListByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o1, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	o2, _ := f.svc.CreateOrder(ctx, "c1", "s1")
	_, err := f.svc.MarkPaid(ctx, o2.ID)
	require.NoError(t, err)

	pending, err := f.svc.ListByStatus(ctx, "PENDING")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, o1.ID, pending[0].ID)

	_, err = f.svc.ListByStatus(ctx, "BOGUS")
	var invalid apperror.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestGetOrderWithLines(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.svc.CreateOrder(ctx, "c1", "s1")

	l, err := domain.NewLine(o.ID, "p1", 3, 1000)
	require.NoError(t, err)
	require.NoError(t, f.lines.Save(ctx, &l))

	full, err := f.svc.GetOrderWithLines(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, full.Lines, 1)
	assert.Equal(t, "p1", full.Lines[0].ProductID)
}
