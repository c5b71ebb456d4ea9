package order

import (
	"context"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	orders   []domain.Order
	lastUser string
}

func (s *stubRepo) Create(context.Context, domain.Order) (string, error) { return "", nil }

func (s *stubRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.lastUser = userID
	return s.orders, nil
}

func TestHistory(t *testing.T) {
	repo := &stubRepo{orders: []domain.Order{{ID: "o2"}, {ID: "o1"}}}
	got, err := New(repo).History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUser != "u1" || len(got) != 2 || got[0].ID != "o2" {
		t.Fatalf("unexpected history %+v for %q", got, repo.lastUser)
	}
}
