package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type OrderItem struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Image string          `json:"image"`
	Type  ItemType        `json:"type"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// DeviceInfo describes the device brought in for a repair booking.
type DeviceInfo struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Issue string `json:"issue"`
}

type OrderSummary struct {
	SubTotal   decimal.Decimal `json:"subTotal"`
	Delivery   decimal.Decimal `json:"delivery"`
	FinalTotal decimal.Decimal `json:"finalTotal"`
}

// Order is immutable once written; only Status is changed later, by staff.
// DeviceInfo is set iff at least one item is a service.
type Order struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Items         []OrderItem  `json:"items"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	DeviceInfo    *DeviceInfo  `json:"deviceInfo"`
	Summary       OrderSummary `json:"summary"`
	PaymentMethod string       `json:"paymentMethod"`
	Status        OrderStatus  `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
	PointsAwarded int64        `json:"pointsAwarded"`
}

// HasService reports whether any line is a service booking.
func (o Order) HasService() bool {
	for _, it := range o.Items {
		if it.Type == ItemTypeService {
			return true
		}
	}
	return false
}
