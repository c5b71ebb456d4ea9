package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/money"
)

// Service mutates a session cart. Every mutation reads the whole cart,
// changes it in memory and writes the whole cart back.
type Service struct {
	store   cartStore
	catalog catalog
}

type cartStore interface {
	Cart(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	SetCart(ctx context.Context, sessionID string, items []domain.CartItem) error
}

type catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetOffering(ctx context.Context, id string) (*domain.Offering, error)
}

func New(store cartStore, catalog catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// View is a cart with its derived figures.
type View struct {
	Items          []domain.CartItem `json:"items"`
	Count          int               `json:"count"`
	Total          decimal.Decimal   `json:"total"`
	FormattedTotal string            `json:"formattedTotal"`
	Empty          bool              `json:"empty"`
}

func NewView(items []domain.CartItem) View {
	total := Total(items)
	return View{
		Items:          items,
		Count:          Count(items),
		Total:          total,
		FormattedTotal: money.Format(total),
		Empty:          len(items) == 0,
	}
}

// Total is the sum of price times quantity over all lines.
func Total(items []domain.CartItem) decimal.Decimal {
	lines := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.LineTotal())
	}
	return money.Sum(lines...)
}

// Count is the badge count: the sum of quantities.
func Count(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}

func (s *Service) Get(ctx context.Context, sessionID string) (View, error) {
	items, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return NewView(items), nil
}

// AddItem merges item into the cart. An existing product line has its
// quantity increased; a service is always a single unit and cannot be added twice.
func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartItem, qty int) (View, error) {
	if strings.TrimSpace(item.ID) == "" {
		return View{}, domain.NewValidationError("item_id_required", "item id required")
	}
	if qty <= 0 {
		return View{}, domain.NewValidationError("invalid_quantity", "quantity must be positive")
	}
	items, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	idx := indexOf(items, item.ID)
	switch {
	case idx >= 0 && items[idx].IsService():
		return View{}, domain.NewValidationError("service_already_in_cart", "Only 1 unit allowed per service")
	case idx >= 0:
		items[idx].Qty += qty
	default:
		item.Type = item.Kind()
		item.Qty = qty
		if item.IsService() {
			item.Qty = 1
		}
		items = append(items, item)
	}

	if err := s.store.SetCart(ctx, sessionID, items); err != nil {
		return View{}, err
	}
	return NewView(items), nil
}

// AddProduct looks the product up in the catalog and adds it at its selling price.
func (s *Service) AddProduct(ctx context.Context, sessionID, productID string, qty int) (View, error) {
	if s.catalog == nil {
		return View{}, errors.New("catalog unavailable")
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return View{}, err
	}
	return s.AddItem(ctx, sessionID, domain.CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.SellingPrice(),
		Image: p.PrimaryImage(),
		Type:  domain.ItemTypeProduct,
	}, qty)
}

// AddOffering books a repair service into the cart.
func (s *Service) AddOffering(ctx context.Context, sessionID, offeringID string) (View, error) {
	if s.catalog == nil {
		return View{}, errors.New("catalog unavailable")
	}
	o, err := s.catalog.GetOffering(ctx, offeringID)
	if err != nil {
		return View{}, err
	}
	image := o.ImageURL
	if image == "" {
		image = domain.DefaultServiceImage
	}
	return s.AddItem(ctx, sessionID, domain.CartItem{
		ID:    o.ID,
		Name:  o.Name,
		Price: o.Price,
		Image: image,
		Type:  domain.ItemTypeService,
	}, 1)
}

// UpdateQty changes a line's quantity by delta. A result of zero or less, or
// an unknown id, leaves the cart untouched; removal goes through RemoveItem.
func (s *Service) UpdateQty(ctx context.Context, sessionID, itemID string, delta int) (View, error) {
	items, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	idx := indexOf(items, itemID)
	if idx < 0 || items[idx].Qty+delta <= 0 {
		return NewView(items), nil
	}
	if items[idx].IsService() && items[idx].Qty+delta > 1 {
		return View{}, domain.NewValidationError("service_already_in_cart", "Only 1 unit allowed per service")
	}
	items[idx].Qty += delta
	if err := s.store.SetCart(ctx, sessionID, items); err != nil {
		return View{}, err
	}
	return NewView(items), nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (View, error) {
	items, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	out := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	if err := s.store.SetCart(ctx, sessionID, out); err != nil {
		return View{}, err
	}
	return NewView(out), nil
}

func indexOf(items []domain.CartItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
