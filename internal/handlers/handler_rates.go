package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/dto"
)

// rateHandler handles rate lookups, refreshes and history queries.
type rateHandler struct {
	rateQuery   portssvc.RateQuerySvcFacade
	rateRefresh portssvc.RateRefreshSvcFacade
	rateHistory portssvc.RateHistorySvcFacade
}

// registerRateRoutes registers the rate routes.
func registerRateRoutes(rg *gin.RouterGroup, query portssvc.RateQuerySvcFacade, refresh portssvc.RateRefreshSvcFacade, history portssvc.RateHistorySvcFacade) {
	h := &rateHandler{rateQuery: query, rateRefresh: refresh, rateHistory: history}

	rates := rg.Group("/rates")
	{
		rates.GET("", h.listRates)
		rates.GET("/history", h.listHistory)
		rates.GET("/:from/:to", h.getRate)
		rates.POST("/refresh", h.refresh)
	}
}

func (h *rateHandler) getRate(c *gin.Context) {
	quote, err := h.rateQuery.GetRate(c.Request.Context(), c.Param("from"), c.Param("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRateResponse(quote))
}

func (h *rateHandler) listRates(c *gin.Context) {
	filter := portssvc.ListRatesFilter{
		CurrencyCode: c.Query("currency"),
		BaseCurrency: c.Query("base"),
	}
	if topStr := c.Query("top"); topStr != "" {
		top, err := strconv.Atoi(topStr)
		if err != nil || top < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a non-negative integer"})
			return
		}
		filter.Top = top
	}

	quotes, err := h.rateQuery.ListRates(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateResponse(quotes))
}

func (h *rateHandler) refresh(c *gin.Context) {
	result, err := h.rateRefresh.RefreshRates(c.Request.Context(), c.Query("source"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRefreshResponse(result))
}

func (h *rateHandler) listHistory(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := h.rateHistory.ListRateHistory(c.Request.Context(), c.Query("pair"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateHistoryResponse(records))
}
