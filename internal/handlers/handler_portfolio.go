package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/dto"
	"github.com/valutrade/valutrade-hub/internal/middleware"
)

// portfolioHandler handles portfolio valuation requests.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvcFacade
}

// registerPortfolioRoutes registers the portfolio routes.
func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioService portssvc.PortfolioSvcFacade) {
	h := &portfolioHandler{portfolioService: portfolioService}
	rg.GET("/portfolio", h.getPortfolio)
}

func (h *portfolioHandler) getPortfolio(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	valuation, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID, c.Query("base"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPortfolioResponse(valuation))
}
