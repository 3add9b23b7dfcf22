package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateDerivation says how a quoted rate was obtained from the cache.
type RateDerivation string

const (
	DerivationDirect  RateDerivation = "direct"  // pair stored as-is
	DerivationInverse RateDerivation = "inverse" // one leg is the base currency
	DerivationCross   RateDerivation = "cross"   // derived through the base currency
)

// RateQuote is a rate lookup result: the effective rate for the requested
// pair plus provenance and an advisory staleness flag.
type RateQuote struct {
	Pair       Pair            `json:"pair"`
	Rate       decimal.Decimal `json:"rate"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Source     string          `json:"source"`
	Derivation RateDerivation  `json:"derivation"`
	Stale      bool            `json:"stale"`
}

// RefreshResult reports one aggregator run: how many pairs were merged and
// which providers failed. Errors may be non-empty on a successful refresh;
// only all providers failing aborts the run.
type RefreshResult struct {
	Merged      []RateEntry   `json:"-"`
	PairCount   int           `json:"pairCount"`
	Sources     []string      `json:"sources"`
	Errors      []error       `json:"-"`
	Elapsed     time.Duration `json:"elapsed"`
	RefreshedAt time.Time     `json:"refreshedAt"`
}

// RateHistoryRecord is one flat row of the append-only refresh history.
type RateHistoryRecord struct {
	ID        string          `json:"id"`
	Pair      Pair            `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	RequestMS int64           `json:"requestMs"`
}

// TradeSide is the direction of a ledger conversion.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// TradeReceipt reports a completed buy or sell: the rate actually used and the
// target wallet's balance before and after the two legs.
type TradeReceipt struct {
	UserID        int64           `json:"userID"`
	Side          TradeSide       `json:"side"`
	CurrencyCode  string          `json:"currencyCode"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	BaseCurrency  string          `json:"baseCurrency"`
	BaseDelta     decimal.Decimal `json:"baseDelta"` // negative for buys, positive for sells
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ExecutedAt    time.Time       `json:"executedAt"`
}

// WalletValuation is one line of a portfolio valuation.
type WalletValuation struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Value        decimal.Decimal `json:"value"` // balance converted to the valuation base
}

// PortfolioValuation is the full portfolio converted into one base currency.
// A missing rate for any held currency fails the whole valuation, so Total is
// never a partial sum.
type PortfolioValuation struct {
	UserID       int64             `json:"userID"`
	BaseCurrency string            `json:"baseCurrency"`
	Wallets      []WalletValuation `json:"wallets"`
	Total        decimal.Decimal   `json:"total"`
}
