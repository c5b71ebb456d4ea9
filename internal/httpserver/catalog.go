package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.CatalogSvc.ListProducts(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toProductResponses(products), "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.CatalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *handlers) listOfferings(c *gin.Context) {
	offerings, err := h.deps.CatalogSvc.ListOfferings(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	out := make([]offeringResponse, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, toOfferingResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) getOffering(c *gin.Context) {
	o, err := h.deps.CatalogSvc.GetOffering(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOfferingResponse(*o))
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.CatalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"results": categories, "count": len(categories)})
}
