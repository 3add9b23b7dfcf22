package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	"github.com/valutrade/valutrade-hub/internal/dto"
)

// registerCurrencyRoutes registers the supported-currency listing.
func registerCurrencyRoutes(rg *gin.RouterGroup, registry *domain.CurrencyRegistry) {
	rg.GET("/currencies", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.ToListCurrencyResponse(registry.List()))
	})
	rg.GET("/currencies/:code", func(c *gin.Context) {
		currency, err := registry.Get(c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		out := dto.ToListCurrencyResponse([]domain.Currency{currency})
		c.JSON(http.StatusOK, out[0])
	})
}
