package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
	producer                = "storefront"
)

type OrderPlacedItem struct {
	ID    string          `json:"id"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Type  domain.ItemType `json:"type"`
}

type OrderPlacedPayload struct {
	OrderID       string            `json:"orderId"`
	UserID        string            `json:"userId"`
	Items         []OrderPlacedItem `json:"items"`
	FinalTotal    decimal.Decimal   `json:"finalTotal"`
	PaymentMethod string            `json:"paymentMethod"`
	PointsAwarded int64             `json:"pointsAwarded"`
	HasService    bool              `json:"hasService"`
	PlacedAt      time.Time         `json:"placedAt"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// NewOrderPlaced wraps a freshly written order. The order id is the
// partition key.
func NewOrderPlaced(o domain.Order, now time.Time) OrderPlacedEnvelope {
	items := make([]OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedItem{ID: it.ID, Qty: it.Qty, Price: it.Price, Type: it.Type})
	}
	return OrderPlacedEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: uuid.NewString(),
		Producer:      producer,
		PartitionKey:  o.ID,
		OccurredAt:    now.UTC(),
		Payload: OrderPlacedPayload{
			OrderID:       o.ID,
			UserID:        o.UserID,
			Items:         items,
			FinalTotal:    o.Summary.FinalTotal,
			PaymentMethod: o.PaymentMethod,
			PointsAwarded: o.PointsAwarded,
			HasService:    o.HasService(),
			PlacedAt:      o.CreatedAt,
		},
	}
}
