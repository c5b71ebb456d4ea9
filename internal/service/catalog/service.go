package catalog

import (
	"context"
	"strings"

	"storefront/internal/domain"
	categoryrepo "storefront/internal/repository/category"
	offeringrepo "storefront/internal/repository/offering"
	productrepo "storefront/internal/repository/product"
)

// Service reads the product and repair-service catalogs.
type Service struct {
	products   productrepo.Repository
	offerings  offeringrepo.Repository
	categories categoryrepo.Repository
}

func New(products productrepo.Repository, offerings offeringrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, offerings: offerings, categories: categories}
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// ListProducts lists products in category whose name contains query. Either
// may be empty.
func (s *Service) ListProducts(ctx context.Context, category, query string) ([]domain.Product, error) {
	return s.products.List(ctx, productrepo.Filter{
		Category: strings.TrimSpace(category),
		Query:    strings.TrimSpace(query),
	})
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListOfferings(ctx context.Context) ([]domain.Offering, error) {
	return s.offerings.List(ctx)
}

func (s *Service) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.ImageURL == "" {
		o.ImageURL = domain.DefaultServiceImage
	}
	return o, nil
}
