package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db pinger, deps Deps, origins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), metricsMiddleware(), requestLogger(logger))
	if len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Authorization", "Content-Type", sessionHeader},
			ExposeHeaders:    []string{sessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/", sessionMiddleware(), userMiddleware(deps.AuthSvc, logger))
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/me", requireUser(), h.me)
		api.PUT("/auth/me/profile", requireUser(), h.updateProfile)
		api.GET("/auth/events", h.authEvents)

		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/categories", h.listCategories)
		api.GET("/services", h.listOfferings)
		api.GET("/services/:id", h.getOffering)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addCartItem)
		api.PATCH("/cart/items/:id", h.updateCartItem)
		api.DELETE("/cart/items/:id", h.removeCartItem)
		api.GET("/cart/events", h.cartEvents)

		api.GET("/checkout", h.previewCheckout)
		api.POST("/checkout", h.submitCheckout)
		api.GET("/orders", requireUser(), h.listOrders)

		api.GET("/wishlist", h.listWishlist)
		api.POST("/wishlist/:id/toggle", h.toggleWishlist)

		api.GET("/notifications", h.listNotifications)
		api.POST("/notifications/read", h.markNotificationsRead)
		api.POST("/notifications/sync", h.syncNotifications)
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
