package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	cartsvc "storefront/internal/service/cart"
)

type addCartItemRequest struct {
	ID   string          `json:"id" binding:"required"`
	Type domain.ItemType `json:"type"`
	Qty  int             `json:"qty"`
}

type updateCartItemRequest struct {
	Delta int `json:"delta"`
}

func (h *handlers) getCart(c *gin.Context) {
	view, err := h.deps.CartSvc.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(view))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "id is required")
		return
	}

	var (
		view cartsvc.View
		err  error
	)
	switch req.Type {
	case domain.ItemTypeService:
		view, err = h.deps.CartSvc.AddOffering(c.Request.Context(), sessionID(c), req.ID)
	case domain.ItemTypeProduct, "":
		qty := req.Qty
		if qty == 0 {
			qty = 1
		}
		view, err = h.deps.CartSvc.AddProduct(c.Request.Context(), sessionID(c), req.ID, qty)
	default:
		abortWithError(c, http.StatusBadRequest, "invalid_type", "type must be product or service")
		return
	}
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(view))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	view, err := h.deps.CartSvc.UpdateQty(c.Request.Context(), sessionID(c), c.Param("id"), req.Delta)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(view))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	view, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(view))
}

// cartEvents pushes the cart view every time this session's cart changes.
func (h *handlers) cartEvents(c *gin.Context) {
	if h.deps.Events == nil {
		abortWithError(c, http.StatusNotImplemented, "unsupported", "cart events are not enabled")
		return
	}
	ctx := c.Request.Context()
	sid := sessionID(c)

	changed := make(chan struct{}, 1)
	unsubscribe := h.deps.Events.Subscribe(func(ev localstore.Event) {
		if ev.SessionID != sid || ev.Kind != localstore.CartUpdated {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	first := true
	c.Stream(func(w io.Writer) bool {
		if !first {
			select {
			case <-changed:
			case <-ctx.Done():
				return false
			}
		}
		first = false
		view, err := h.deps.CartSvc.Get(ctx, sid)
		if err != nil {
			h.logger.Warn("cart stream read failed", zap.String("session_id", sid), zap.Error(err))
			return false
		}
		c.SSEvent("cart", cartResponse(view))
		return true
	})
}

func cartResponse(v cartsvc.View) cartsvc.View {
	if v.Items == nil {
		v.Items = []domain.CartItem{}
	}
	return v
}
