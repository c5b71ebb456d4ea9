package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) listWishlist(c *gin.Context) {
	products, err := h.deps.WishlistSvc.List(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toProductResponses(products), "count": len(products)})
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	in, err := h.deps.WishlistSvc.Toggle(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "inWishlist": in})
}

func (h *handlers) listNotifications(c *gin.Context) {
	inbox, err := h.deps.NotificationSvc.List(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}

func (h *handlers) markNotificationsRead(c *gin.Context) {
	if err := h.deps.NotificationSvc.MarkAllRead(c.Request.Context(), sessionID(c)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) syncNotifications(c *gin.Context) {
	added, err := h.deps.NotificationSvc.Sync(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
