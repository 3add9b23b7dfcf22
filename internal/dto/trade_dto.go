package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// TradeRequest defines the payload for a buy or sell operation.
type TradeRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// TradeResponse reports a completed conversion, including the target wallet's
// balance before and after.
type TradeResponse struct {
	UserID        int64           `json:"userID"`
	Side          string          `json:"side"`
	CurrencyCode  string          `json:"currencyCode"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	BaseCurrency  string          `json:"baseCurrency"`
	BaseDelta     decimal.Decimal `json:"baseDelta"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ExecutedAt    time.Time       `json:"executedAt"`
}

// ToTradeResponse converts a domain.TradeReceipt to its API view.
func ToTradeResponse(receipt *domain.TradeReceipt) TradeResponse {
	return TradeResponse{
		UserID:        receipt.UserID,
		Side:          string(receipt.Side),
		CurrencyCode:  receipt.CurrencyCode,
		Amount:        receipt.Amount,
		Rate:          receipt.Rate,
		BaseCurrency:  receipt.BaseCurrency,
		BaseDelta:     receipt.BaseDelta,
		BalanceBefore: receipt.BalanceBefore,
		BalanceAfter:  receipt.BalanceAfter,
		ExecutedAt:    receipt.ExecutedAt,
	}
}
