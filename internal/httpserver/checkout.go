package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"
)

type deviceRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Issue string `json:"issue"`
}

type checkoutRequest struct {
	Device        deviceRequest `json:"device"`
	PaymentMethod string        `json:"paymentMethod"`
}

func (h *handlers) previewCheckout(c *gin.Context) {
	p, err := h.deps.CheckoutSvc.Preview(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toPreviewResponse(p))
}

func (h *handlers) submitCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	in := checkoutsvc.Input{
		SessionID: sessionID(c),
		Device: domain.DeviceInfo{
			Brand: req.Device.Brand,
			Model: req.Device.Model,
			Issue: req.Device.Issue,
		},
		PaymentMethod: req.PaymentMethod,
	}
	if u := currentUser(c); u != nil {
		p := u.Profile()
		in.UserID = u.ID
		in.Email = u.Email
		in.Profile = &p
	}

	order, err := h.deps.CheckoutSvc.Submit(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}
