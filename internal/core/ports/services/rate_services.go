package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// ListRatesFilter narrows a rate listing.
type ListRatesFilter struct {
	CurrencyCode string // only pairs involving this currency, "" for all
	Top          int    // keep the N highest rates, 0 for all
	BaseCurrency string // valuation base for ordering, "" for the default
}

// RateQuerySvcFacade answers rate lookups against the cached table.
type RateQuerySvcFacade interface {
	// GetRate quotes from -> to, deriving inverse and cross rates through the
	// base currency when the pair is not stored directly.
	GetRate(ctx context.Context, fromCode, toCode string) (*domain.RateQuote, error)

	// Convert values amount of fromCode in toCode at the current cached rate.
	// amount must be non-negative.
	Convert(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (decimal.Decimal, error)

	// ListRates returns the cached entries matching the filter, stale-flagged.
	ListRates(ctx context.Context, filter ListRatesFilter) ([]domain.RateQuote, error)

	// IsStale reports whether the stored entry for the pair has outlived the
	// configured TTL. Staleness is advisory; a stale pair still quotes.
	IsStale(ctx context.Context, fromCode, toCode string) (bool, error)
}

// RateRefreshSvcFacade runs provider fetches and merges the results.
type RateRefreshSvcFacade interface {
	// RefreshRates refreshes from the named source, or from every configured
	// provider when source is empty. Individual provider failures are
	// collected into the result; only all of them failing is an error.
	RefreshRates(ctx context.Context, source string) (*domain.RefreshResult, error)
}

// RateHistorySvcFacade exposes the append-only refresh history.
type RateHistorySvcFacade interface {
	ListRateHistory(ctx context.Context, pairKey string, limit int) ([]domain.RateHistoryRecord, error)
}
