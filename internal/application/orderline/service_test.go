package orderline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesorders/internal/application/stock"
	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
	"salesorders/internal/domain/product"
	"salesorders/internal/infrastructure/persistence/memory"
	"salesorders/pkg/lock"
	"salesorders/pkg/logger"
)

type fixture struct {
	svc      *Service
	orders   *memory.OrderRepository
	lines    *memory.OrderLineRepository
	products *memory.ProductRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orders := memory.NewOrderRepository()
	lines := memory.NewOrderLineRepository()
	products := memory.NewProductRepository()

	svc := NewService(orders, lines, products,
		stock.NewValidator(products), lock.NewKeyed(), logger.NewNop())
	return &fixture{svc: svc, orders: orders, lines: lines, products: products}
}

func (f *fixture) seedOrder(t *testing.T, status domain.Status) *domain.Order {
	t.Helper()
	o := domain.New("c1", "s1")
	o.Status = status
	require.NoError(t, f.orders.Save(context.Background(), o))
	return o
}

func (f *fixture) seedProduct(t *testing.T, id string, price float64, stockOnHand int) {
	t.Helper()
	require.NoError(t, f.products.Save(context.Background(), &product.Product{
		ID:     id,
		Code:   "CODE-" + id,
		Name:   "Product " + id,
		Price:  price,
		Stock:  stockOnHand,
		Status: product.StatusActive,
	}))
}

func TestCreateLine_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 100000, 10)
	f.seedProduct(t, "p2", 50000, 10)

	line, err := f.svc.CreateLine(ctx, o.ID, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, line.Subtotal)
	assert.Equal(t, 100000.0, line.UnitPrice)

	stored, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, stored.Subtotal)
	assert.Equal(t, 4000.0, stored.Tax)
	assert.Equal(t, 204000.0, stored.Total)

	_, err = f.svc.CreateLine(ctx, o.ID, "p2", 1)
	require.NoError(t, err)

	stored, err = f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 250000.0, stored.Subtotal)
	assert.Equal(t, 5000.0, stored.Tax)
	assert.Equal(t, 255000.0, stored.Total)
}

func TestCreateLine_SnapshotsUnitPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 100000, 10)

	line, err := f.svc.CreateLine(ctx, o.ID, "p1", 1)
	require.NoError(t, err)

	// A later catalog price change must not touch the existing line.
	f.seedProduct(t, "p1", 999999, 10)

	stored, err := f.svc.GetLine(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, stored.UnitPrice)
}

func TestCreateLine_DuplicateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 10)

	_, err := f.svc.CreateLine(ctx, o.ID, "p1", 1)
	require.NoError(t, err)

	_, err = f.svc.CreateLine(ctx, o.ID, "p1", 2)

	var dup apperror.DuplicateLineError
	require.ErrorAs(t, err, &dup)
	assert.Contains(t, err.Error(), o.ID)
	assert.Contains(t, err.Error(), "p1")
	assert.Contains(t, err.Error(), "quantity")
}

func TestCreateLine_OrderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateLine(context.Background(), "missing", "p1", 1)

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Entity)
}

func TestCreateLine_ProductNotFound(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, domain.StatusPending)

	_, err := f.svc.CreateLine(context.Background(), o.ID, "ghost", 1)

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)
}

func TestCreateLine_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 5)

	_, err := f.svc.CreateLine(context.Background(), o.ID, "p1", 6)

	var rule apperror.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Contains(t, err.Error(), "available=5")
	assert.Contains(t, err.Error(), "requested=6")

	_, err = f.svc.CreateLine(context.Background(), o.ID, "p1", 5)
	assert.NoError(t, err)
}

func TestLineMutations_GatedByOrderStatus(t *testing.T) {
	nonEditable := []domain.Status{
		domain.StatusAvailableForPayment,
		domain.StatusPaid,
		domain.StatusDelivered,
		domain.StatusClosed,
	}

	for _, status := range nonEditable {
		t.Run(status.String(), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.seedProduct(t, "p1", 1000, 10)
			f.seedProduct(t, "p2", 2000, 10)

			// Seed a line while the order is still editable.
			o := f.seedOrder(t, domain.StatusPending)
			line, err := f.svc.CreateLine(ctx, o.ID, "p1", 1)
			require.NoError(t, err)
			before, err := f.orders.FindByID(ctx, o.ID)
			require.NoError(t, err)

			// Move the order out of the editable states.
			before.Status = status
			require.NoError(t, f.orders.Save(ctx, before))

			var illegal apperror.IllegalStateError

			_, err = f.svc.CreateLine(ctx, o.ID, "p2", 1)
			assert.ErrorAs(t, err, &illegal)

			_, err = f.svc.UpdateQuantity(ctx, line.ID, 3)
			assert.ErrorAs(t, err, &illegal)

			qty := 3
			_, err = f.svc.UpdateLine(ctx, line.ID, UpdatePatch{Quantity: &qty})
			assert.ErrorAs(t, err, &illegal)

			err = f.svc.DeleteLine(ctx, line.ID)
			assert.ErrorAs(t, err, &illegal)

			// Neither the line nor the totals may have moved.
			after, err := f.orders.FindByID(ctx, o.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Subtotal, after.Subtotal)
			assert.Equal(t, before.Total, after.Total)

			stored, err := f.svc.GetLine(ctx, line.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, stored.Quantity)
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusAddingProducts)
	f.seedProduct(t, "p1", 1000, 10)

	line, err := f.svc.CreateLine(ctx, o.ID, "p1", 2)
	require.NoError(t, err)

	updated, err := f.svc.UpdateQuantity(ctx, line.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 5000.0, updated.Subtotal)

	stored, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, stored.Subtotal)
	assert.Equal(t, 100.0, stored.Tax)
	assert.Equal(t, 5100.0, stored.Total)
}

func TestUpdateQuantity_RevalidatesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 5)

	line, err := f.svc.CreateLine(ctx, o.ID, "p1", 2)
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, line.ID, 6)

	var rule apperror.BusinessRuleError
	assert.ErrorAs(t, err, &rule)
}

func TestUpdateQuantity_NonPositive(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateQuantity(context.Background(), "any", 0)

	var invalid apperror.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestDeleteLine_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 100000, 10)
	f.seedProduct(t, "p2", 50000, 10)

	l1, err := f.svc.CreateLine(ctx, o.ID, "p1", 2)
	require.NoError(t, err)
	_, err = f.svc.CreateLine(ctx, o.ID, "p2", 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLine(ctx, l1.ID))

	stored, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, stored.Subtotal)
	assert.Equal(t, 1000.0, stored.Tax)
	assert.Equal(t, 51000.0, stored.Total)
}

func TestDeleteSoleLine_ThenListYieldsNoLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 10)

	line, err := f.svc.CreateLine(ctx, o.ID, "p1", 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLine(ctx, line.ID))

	_, err = f.svc.ListLinesForOrder(ctx, o.ID)

	var noLines apperror.NoLinesError
	require.ErrorAs(t, err, &noLines)
	assert.Equal(t, o.ID, noLines.OrderID)
}

func TestListLinesForOrder_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListLinesForOrder(context.Background(), "missing")

	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Entity)
}

func TestDeleteLineByOrderAndProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 10)

	_, err := f.svc.CreateLine(ctx, o.ID, "p1", 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLineByOrderAndProduct(ctx, o.ID, "p1"))

	err = f.svc.DeleteLineByOrderAndProduct(ctx, o.ID, "p1")
	var notFound apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), o.ID)
	assert.Contains(t, err.Error(), "p1")
}

func TestValidateStockAvailable_Delegates(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 1000, 5)

	assert.NoError(t, f.svc.ValidateStockAvailable(context.Background(), "p1", 5))
	assert.Error(t, f.svc.ValidateStockAvailable(context.Background(), "p1", 6))
}

func TestCreateLine_ConcurrentSamePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t, domain.StatusPending)
	f.seedProduct(t, "p1", 1000, 100)

	const racers = 2
	errs := make([]error, racers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			_, errs[i] = f.svc.CreateLine(ctx, o.ID, "p1", 1)
		}(i)
	}
	start.Done()
	done.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.As(err, &apperror.DuplicateLineError{}):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one create must win")
	assert.Equal(t, 1, duplicates, "the loser must get a duplicate-line failure")

	lines, err := f.lines.FindByOrderID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
