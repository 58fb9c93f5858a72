package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

type OrderLineRepository struct {
	pool *pgxpool.Pool
}

func NewOrderLineRepository(pool *pgxpool.Pool) *OrderLineRepository {
	return &OrderLineRepository{pool: pool}
}

// Save upserts a line. The order_lines table carries a unique
// (order_id, product_id) constraint; a violation is translated into the
// duplicate-line error so concurrent creates racing past the service
// check still resolve to exactly one winner.
func (r *OrderLineRepository) Save(ctx context.Context, l *domain.Line) error {
	if l == nil {
		return fmt.Errorf("order line is nil")
	}

	const query = `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
			subtotal = EXCLUDED.subtotal;
	`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.OrderID,
		l.ProductID,
		l.Quantity,
		l.UnitPrice,
		l.Subtotal,
		l.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.DuplicateLineError{OrderID: l.OrderID, ProductID: l.ProductID}
	}
	return err
}

const lineColumns = `id, order_id, product_id, quantity, unit_price, subtotal, created_at`

func (r *OrderLineRepository) FindByID(ctx context.Context, id string) (*domain.Line, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE id = $1;`

	l, err := scanLine(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *OrderLineRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.Line, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = $1 ORDER BY created_at;`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.Line, 0)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

func (r *OrderLineRepository) FindByOrderIDAndProductID(ctx context.Context, orderID, productID string) (*domain.Line, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = $1 AND product_id = $2;`

	l, err := scanLine(r.pool.QueryRow(ctx, query, orderID, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *OrderLineRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM order_lines WHERE id = $1;`, id)
	return err
}

func scanLine(row pgx.Row) (*domain.Line, error) {
	var l domain.Line
	err := row.Scan(
		&l.ID,
		&l.OrderID,
		&l.ProductID,
		&l.Quantity,
		&l.UnitPrice,
		&l.Subtotal,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
