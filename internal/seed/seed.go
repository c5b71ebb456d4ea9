package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type productWriter interface {
	Upsert(ctx context.Context, p domain.Product) error
}

type offeringWriter interface {
	Upsert(ctx context.Context, o domain.Offering) error
}

type settingsWriter interface {
	PutGeneral(ctx context.Context, s domain.Settings) error
}

type broadcastStore interface {
	Latest(ctx context.Context) (*domain.Broadcast, error)
	Create(ctx context.Context, b domain.Broadcast) (*domain.Broadcast, error)
}

// Targets are the stores demo data is written to.
type Targets struct {
	Products   productWriter
	Offerings  offeringWriter
	Settings   settingsWriter
	Broadcasts broadcastStore
}

// Apply writes demo catalog data, the general settings document and a
// welcome broadcast. Rerunning it updates rows in place.
func Apply(ctx context.Context, t Targets) error {
	if err := t.Settings.PutGeneral(ctx, domain.Settings{
		MinOrderPrice:   decimal.NewFromInt(199),
		PointsAwardRate: 0.01,
	}); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}

	products := []domain.Product{
		{
			ID:            "demo-charger",
			Name:          "20W USB-C Fast Charger",
			Description:   "Compact wall charger with PD support",
			Category:      "chargers",
			Price:         decimal.NewFromInt(1499),
			DiscountPrice: decimalPtr(999),
			Image:         "assets/images/charger.png",
		},
		{
			ID:          "demo-glass",
			Name:        "Tempered Glass Guard",
			Description: "9H hardness screen protector",
			Category:    "guards",
			Price:       decimal.NewFromInt(299),
			Image:       "assets/images/glass.png",
		},
		{
			ID:          "demo-cable",
			Name:        "Braided Type-C Cable",
			Description: "1m nylon braided cable",
			Category:    "cables",
			Price:       decimal.NewFromInt(399),
			MRP:         decimalPtr(599),
		},
	}
	for _, p := range products {
		if err := t.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	offerings := []domain.Offering{
		{ID: "demo-screen", Name: "Screen Replacement", Description: "Original quality display swap", Price: decimal.NewFromInt(2499)},
		{ID: "demo-battery", Name: "Battery Replacement", Description: "Fresh cell with 6 month warranty", Price: decimal.NewFromInt(1299)},
	}
	for _, o := range offerings {
		if err := t.Offerings.Upsert(ctx, o); err != nil {
			return fmt.Errorf("upsert service %s: %w", o.ID, err)
		}
	}

	_, err := t.Broadcasts.Latest(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if _, err := t.Broadcasts.Create(ctx, domain.Broadcast{
			Title:   "Welcome",
			Message: "Doorstep repairs are now available in your area.",
			Type:    "info",
		}); err != nil {
			return fmt.Errorf("create broadcast: %w", err)
		}
	case err != nil:
		return fmt.Errorf("latest broadcast: %w", err)
	}

	return nil
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
