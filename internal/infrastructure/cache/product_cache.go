package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	domain "salesorders/internal/domain/product"
	"salesorders/internal/domain/repository"
)

// CachedProductRepository wraps a product repository with a Redis
// cache-aside layer. Products change rarely compared to how often line
// creation reads them for price and stock checks, so a short TTL keeps
// the hot path off the database without serving stale stock for long.
type CachedProductRepository struct {
	primary repository.ProductRepository
	client  *redis.Client
	ttl     time.Duration
}

func NewCachedProductRepository(primary repository.ProductRepository, client *redis.Client, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{
		primary: primary,
		client:  client,
		ttl:     ttl,
	}
}

func cacheKey(id string) string {
	return "product:" + id
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	cached, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(cached, &p); err == nil {
			return &p, nil
		}
	}

	p, err := r.primary.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p != nil {
		if data, err := json.Marshal(p); err == nil {
			r.client.Set(ctx, cacheKey(id), data, r.ttl)
		}
	}
	return p, nil
}

func (r *CachedProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if p != nil {
		defer r.client.Del(ctx, cacheKey(p.ID))
	}
	return r.primary.Save(ctx, p)
}

func (r *CachedProductRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.primary.ExistsByID(ctx, id)
}
