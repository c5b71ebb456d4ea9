package domain

import "github.com/shopspring/decimal"

// ItemType distinguishes purchasable products from bookable repair services.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// CartItem is one line of a session cart. There is at most one line per ID.
type CartItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Image string          `json:"image,omitempty"`
	Type  ItemType        `json:"type,omitempty"`
}

// Kind returns the item type, treating a missing type as a product.
func (i CartItem) Kind() ItemType {
	if i.Type == "" {
		return ItemTypeProduct
	}
	return i.Type
}

func (i CartItem) IsService() bool {
	return i.Kind() == ItemTypeService
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
