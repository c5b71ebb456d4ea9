package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type stubStore struct {
	items    []domain.CartItem
	getErr   error
	setErr   error
	setCalls int
}

func (s *stubStore) Cart(_ context.Context, _ string) ([]domain.CartItem, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubStore) SetCart(_ context.Context, _ string, items []domain.CartItem) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.items = append([]domain.CartItem(nil), items...)
	return nil
}

type stubCatalog struct {
	product  *domain.Product
	offering *domain.Offering
	err      error
}

func (s *stubCatalog) GetProduct(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalog) GetOffering(_ context.Context, _ string) (*domain.Offering, error) {
	return s.offering, s.err
}

func product(id string, price int64) domain.CartItem {
	return domain.CartItem{ID: id, Name: id, Price: decimal.NewFromInt(price), Type: domain.ItemTypeProduct}
}

func service(id string, price int64) domain.CartItem {
	return domain.CartItem{ID: id, Name: id, Price: decimal.NewFromInt(price), Type: domain.ItemTypeService}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	store := &stubStore{}
	svc := New(store, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "sid", product("p1", 100), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := svc.AddItem(ctx, "sid", product("p1", 100), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.items) != 1 || store.items[0].Qty != 5 {
		t.Fatalf("expected one line with qty 5, got %+v", store.items)
	}
	if view.Count != 5 {
		t.Fatalf("expected count 5, got %d", view.Count)
	}
}

func TestAddItemRejectsDuplicateService(t *testing.T) {
	store := &stubStore{items: []domain.CartItem{
		{ID: "s1", Name: "Screen", Price: decimal.NewFromInt(900), Qty: 1, Type: domain.ItemTypeService},
		{ID: "p1", Name: "Case", Price: decimal.NewFromInt(100), Qty: 2, Type: domain.ItemTypeProduct},
	}}
	svc := New(store, nil)

	_, err := svc.AddItem(context.Background(), "sid", service("s1", 900), 4)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Code != "service_already_in_cart" {
		t.Fatalf("expected service_already_in_cart, got %v", err)
	}
	if store.setCalls != 0 {
		t.Fatalf("expected no write, got %d", store.setCalls)
	}
	if store.items[0].Qty != 1 || store.items[1].Qty != 2 {
		t.Fatalf("cart changed: %+v", store.items)
	}
}

func TestAddItemCapsNewServiceAtOne(t *testing.T) {
	store := &stubStore{}
	svc := New(store, nil)

	if _, err := svc.AddItem(context.Background(), "sid", service("s1", 900), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.items[0].Qty != 1 {
		t.Fatalf("expected qty 1, got %d", store.items[0].Qty)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc := New(&stubStore{}, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "sid", product("p1", 10), 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for qty 0, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "sid", product(" ", 10), 1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank id, got %v", err)
	}
}

func TestUpdateQtyToZeroIsNoop(t *testing.T) {
	store := &stubStore{items: []domain.CartItem{{ID: "p1", Price: decimal.NewFromInt(10), Qty: 2}}}
	svc := New(store, nil)

	view, err := svc.UpdateQty(context.Background(), "sid", "p1", -100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.setCalls != 0 {
		t.Fatalf("expected no write")
	}
	if view.Items[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", view.Items[0].Qty)
	}

	view, err = svc.RemoveItem(context.Background(), "sid", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Empty || len(store.items) != 0 {
		t.Fatalf("expected empty cart, got %+v", store.items)
	}
}

func TestUpdateQty(t *testing.T) {
	store := &stubStore{items: []domain.CartItem{{ID: "p1", Price: decimal.NewFromInt(10), Qty: 2}}}
	svc := New(store, nil)

	view, err := svc.UpdateQty(context.Background(), "sid", "p1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.items[0].Qty != 3 || !view.Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected cart %+v total %s", store.items, view.Total)
	}

	if _, err := svc.UpdateQty(context.Background(), "sid", "missing", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.setCalls != 1 {
		t.Fatalf("unknown id should not write, got %d writes", store.setCalls)
	}
}

func TestTotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "a", Price: decimal.NewFromInt(100), Qty: 2},
		{ID: "b", Price: decimal.NewFromInt(50), Qty: 1},
	}
	if got := Total(items); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250, got %s", got)
	}
	if got := NewView(items).FormattedTotal; got != "₹250" {
		t.Fatalf("expected ₹250, got %q", got)
	}
}

func TestAddProductUsesDiscountPrice(t *testing.T) {
	discount := decimal.NewFromInt(80)
	cat := &stubCatalog{product: &domain.Product{
		ID: "p1", Name: "Charger", Price: decimal.NewFromInt(100), DiscountPrice: &discount,
		ImageURLs: []string{"gallery.png"},
	}}
	store := &stubStore{}
	svc := New(store, cat)

	if _, err := svc.AddProduct(context.Background(), "sid", "p1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.items[0]
	if !got.Price.Equal(discount) || got.Image != "gallery.png" || got.Type != domain.ItemTypeProduct {
		t.Fatalf("unexpected line %+v", got)
	}
}

func TestAddOfferingDefaultsImage(t *testing.T) {
	cat := &stubCatalog{offering: &domain.Offering{ID: "s1", Name: "Battery", Price: decimal.NewFromInt(700)}}
	store := &stubStore{}
	svc := New(store, cat)

	if _, err := svc.AddOffering(context.Background(), "sid", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.items[0].Image != domain.DefaultServiceImage || !store.items[0].IsService() {
		t.Fatalf("unexpected line %+v", store.items[0])
	}
}

func TestAddProductNotFound(t *testing.T) {
	svc := New(&stubStore{}, &stubCatalog{err: domain.ErrNotFound})
	if _, err := svc.AddProduct(context.Background(), "sid", "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("redis down")
	svc := New(&stubStore{getErr: boom}, nil)
	if _, err := svc.Get(context.Background(), "sid"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
