package stock

import (
	"context"
	"fmt"

	"salesorders/internal/domain/apperror"
	"salesorders/internal/domain/repository"
)

// Validator checks that a product can back an order line for a requested
// quantity. Pure read-and-check: it never mutates stock. Exposed on its
// own so callers can pre-flight a checkout before committing anything.
type Validator struct {
	products repository.ProductRepository
}

func NewValidator(products repository.ProductRepository) *Validator {
	return &Validator{products: products}
}

// ValidateAvailable fails when the product does not exist, is not ACTIVE,
// or has less stock on hand than requested.
func (v *Validator) ValidateAvailable(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return apperror.InvalidArgumentError{
			Reason: fmt.Sprintf("requested quantity must be at least 1, got %d", quantity),
		}
	}

	p, err := v.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("find product %s: %w", productID, err)
	}
	if p == nil {
		return apperror.NotFoundError{Entity: "product", ID: productID}
	}

	if !p.Sellable() {
		return apperror.BusinessRuleError{
			Reason: fmt.Sprintf("product %s is not available for sale, status=%s", p.Code, p.Status),
		}
	}

	if p.Stock < quantity {
		return apperror.BusinessRuleError{
			Reason: fmt.Sprintf("insufficient stock for product %s: available=%d, requested=%d",
				p.Code, p.Stock, quantity),
		}
	}

	return nil
}
