package product

import (
	"context"

	"storefront/internal/domain"
)

// Filter narrows a product listing. Empty fields match everything.
type Filter struct {
	// Category is compared case-insensitively.
	Category string
	// Query is a case-insensitive substring of the product name.
	Query string
}

// Repository reads and writes the product catalog.
type Repository interface {
	// List returns products newest first.
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) error
}
