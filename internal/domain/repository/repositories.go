package repository

import (
	"context"

	"salesorders/internal/domain/order"
	"salesorders/internal/domain/product"
)

// Find methods return (nil, nil) when the entity does not exist; services
// translate that into the typed not-found errors.

type OrderRepository interface {
	Save(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]*order.Order, error)
	FindByClientID(ctx context.Context, clientID string) ([]*order.Order, error)
	FindBySellerID(ctx context.Context, sellerID string) ([]*order.Order, error)
	FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}

type OrderLineRepository interface {
	Save(ctx context.Context, l *order.Line) error
	FindByID(ctx context.Context, id string) (*order.Line, error)
	FindByOrderID(ctx context.Context, orderID string) ([]order.Line, error)
	FindByOrderIDAndProductID(ctx context.Context, orderID, productID string) (*order.Line, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Save(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id string) (*product.Product, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// ClientRepository and UserRepository are the minimal views of the client
// and user modules this core needs: existence checks for references.

type ClientRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type UserRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}
