package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/valutrade/valutrade-hub/internal/core/services"
	"github.com/valutrade/valutrade-hub/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, container *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, container)

	// Everything under /api/v1 requires a verified session token
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(container.Token))
	registerUserRoutes(v1, container.User)
	registerPortfolioRoutes(v1, container.Portfolio)
	registerTradeRoutes(v1, container.Ledger)
	registerRateRoutes(v1, container.RateQuery, container.RateRefresh, container.RateHistory)
	registerCurrencyRoutes(v1, container.Registry)
}
