package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "salesorders/internal/domain/order"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, client_id, seller_id, status,
	subtotal, discount, tax, total, notes, created_at, updated_at`

func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	const query = `
		INSERT INTO orders (id, order_number, client_id, seller_id, status,
			subtotal, discount, tax, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET client_id = EXCLUDED.client_id,
			status = EXCLUDED.status,
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			tax = EXCLUDED.tax,
			total = EXCLUDED.total,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.OrderNumber,
		o.ClientID,
		o.SellerID,
		o.Status.String(),
		o.Subtotal,
		o.Discount,
		o.Tax,
		o.Total,
		o.Notes,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1;`, id)
	return err
}

func (r *OrderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1);`, id).Scan(&exists)
	return exists, err
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at;`
	return r.findMany(ctx, query)
}

func (r *OrderRepository) FindByClientID(ctx context.Context, clientID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE client_id = $1 ORDER BY created_at;`
	return r.findMany(ctx, query, clientID)
}

func (r *OrderRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id = $1 ORDER BY created_at;`
	return r.findMany(ctx, query, sellerID)
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at;`
	return r.findMany(ctx, query, status.String())
}

func (r *OrderRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.ClientID,
		&o.SellerID,
		&status,
		&o.Subtotal,
		&o.Discount,
		&o.Tax,
		&o.Total,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	return &o, nil
}
