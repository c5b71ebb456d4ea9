package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/money"
	checkoutsvc "storefront/internal/service/checkout"
)

type productResponse struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	Category               string   `json:"category,omitempty"`
	Price                  string   `json:"price"`
	FormattedPrice         string   `json:"formattedPrice"`
	DiscountPrice          string   `json:"discountPrice,omitempty"`
	FormattedDiscountPrice string   `json:"formattedDiscountPrice,omitempty"`
	DiscountPercent        int      `json:"discountPercent,omitempty"`
	Image                  string   `json:"image,omitempty"`
	ImageURLs              []string `json:"imageUrls"`
}

func toProductResponse(p domain.Product) productResponse {
	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	resp := productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Price:          p.Price.String(),
		FormattedPrice: money.Format(p.Price),
		Image:          p.PrimaryImage(),
		ImageURLs:      images,
	}
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		resp.DiscountPrice = p.DiscountPrice.String()
		resp.FormattedDiscountPrice = money.Format(*p.DiscountPrice)
		resp.DiscountPercent = discountPercent(p.Price, *p.DiscountPrice)
	}
	return resp
}

func toProductResponses(ps []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductResponse(p))
	}
	return out
}

// discountPercent is the rounded saving of discounted over price, 0 when
// there is none.
func discountPercent(price, discounted decimal.Decimal) int {
	if !price.IsPositive() || discounted.GreaterThanOrEqual(price) {
		return 0
	}
	saved := price.Sub(discounted).Div(price).Mul(decimal.NewFromInt(100))
	return int(saved.Round(0).IntPart())
}

type offeringResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Price          string `json:"price"`
	FormattedPrice string `json:"formattedPrice"`
	ImageURL       string `json:"imageUrl"`
}

func toOfferingResponse(o domain.Offering) offeringResponse {
	return offeringResponse{
		ID:             o.ID,
		Name:           o.Name,
		Description:    o.Description,
		Price:          o.Price.String(),
		FormattedPrice: money.Format(o.Price),
		ImageURL:       o.ImageURL,
	}
}

type previewResponse struct {
	checkoutsvc.Preview
	FormattedSubTotal   string `json:"formattedSubTotal"`
	FormattedFinalTotal string `json:"formattedFinalTotal"`
	FormattedMinOrder   string `json:"formattedMinOrderPrice"`
}

func toPreviewResponse(p checkoutsvc.Preview) previewResponse {
	if p.Items == nil {
		p.Items = []domain.CartItem{}
	}
	return previewResponse{
		Preview:             p,
		FormattedSubTotal:   money.Format(p.SubTotal),
		FormattedFinalTotal: money.Format(p.FinalTotal),
		FormattedMinOrder:   money.Format(p.MinOrderPrice),
	}
}

type orderResponse struct {
	domain.Order
	FormattedTotal string `json:"formattedTotal"`
	Date           string `json:"date"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		Order:          o,
		FormattedTotal: money.Format(o.Summary.FinalTotal),
		Date:           o.CreatedAt.Format(time.DateOnly),
	}
}

type profileResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:      p.ID,
		Email:   p.Email,
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		Role:    p.Role,
	}
}
