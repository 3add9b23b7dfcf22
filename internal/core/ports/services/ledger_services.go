package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// LedgerSvcFacade performs atomic two-leg conversions between a user's base
// wallet and one target-currency wallet.
type LedgerSvcFacade interface {
	// Buy debits cost from the base wallet and credits amount into the target
	// wallet, all-or-nothing, at the rate cached at the moment of execution.
	Buy(ctx context.Context, userID int64, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error)

	// Sell is the mirror: debits amount from the target wallet and credits
	// the converted proceeds into the base wallet.
	Sell(ctx context.Context, userID int64, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error)
}

// PortfolioSvcFacade reads and values a user's portfolio.
type PortfolioSvcFacade interface {
	// GetPortfolio returns the user's portfolio valued in baseCode (or the
	// configured default when empty). A missing rate for any held currency
	// fails the whole valuation.
	GetPortfolio(ctx context.Context, userID int64, baseCode string) (*domain.PortfolioValuation, error)
}
