package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "salesorders/internal/domain/product"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	const query = `
		INSERT INTO products (id, name, code, description, category_id,
			price, stock, brand, warranty, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			description = EXCLUDED.description,
			category_id = EXCLUDED.category_id,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			brand = EXCLUDED.brand,
			warranty = EXCLUDED.warranty,
			status = EXCLUDED.status;
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Code,
		p.Description,
		p.CategoryID,
		p.Price,
		p.Stock,
		p.Brand,
		p.Warranty,
		p.Status.String(),
		p.CreatedAt,
	)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
		SELECT id, name, code, description, category_id,
			price, stock, brand, warranty, status, created_at
		FROM products
		WHERE id = $1;
	`

	var p domain.Product
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.Description,
		&p.CategoryID,
		&p.Price,
		&p.Stock,
		&p.Brand,
		&p.Warranty,
		&status,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Status = domain.Status(status)
	return &p, nil
}

func (r *ProductRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1);`, id).Scan(&exists)
	return exists, err
}
