package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultServiceImage is shown for offerings that have no image of their own.
const DefaultServiceImage = "assets/images/repair_banner.png"

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	MRP           *decimal.Decimal `json:"mrp,omitempty"`
	Image         string           `json:"image,omitempty"`
	ImageURLs     []string         `json:"imageUrls,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// SellingPrice is the discounted price when one is set.
func (p Product) SellingPrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// PrimaryImage falls back to the first gallery image.
func (p Product) PrimaryImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}

// Offering is a bookable repair service from the services collection.
type Offering struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Category is a product grouping with the number of products filed under it.
type Category struct {
	Name         string `json:"name"`
	ProductCount int64  `json:"productCount"`
}
