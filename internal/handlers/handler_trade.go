package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/dto"
	"github.com/valutrade/valutrade-hub/internal/middleware"
)

// tradeHandler handles buy and sell operations.
type tradeHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerTradeRoutes registers the buy/sell routes.
func registerTradeRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &tradeHandler{ledgerService: ledgerService}

	trade := rg.Group("/trade")
	{
		trade.POST("/buy", h.buy)
		trade.POST("/sell", h.sell)
	}
}

type tradeOp func(ctx context.Context, userID int64, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error)

func (h *tradeHandler) buy(c *gin.Context) {
	h.execute(c, h.ledgerService.Buy)
}

func (h *tradeHandler) sell(c *gin.Context) {
	h.execute(c, h.ledgerService.Sell)
}

func (h *tradeHandler) execute(c *gin.Context, op tradeOp) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	receipt, err := op(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Trade executed",
		slog.Int64("user_id", receipt.UserID),
		slog.String("side", string(receipt.Side)),
		slog.String("currency", receipt.CurrencyCode),
		slog.String("amount", receipt.Amount.String()),
		slog.String("rate", receipt.Rate.String()),
	)
	c.JSON(http.StatusOK, dto.ToTradeResponse(receipt))
}
