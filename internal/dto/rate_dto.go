package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// RateResponse is the API view of one rate quote.
type RateResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Rate       decimal.Decimal `json:"rate"`
	UpdatedAt  time.Time       `json:"updatedAt,omitempty"`
	Source     string          `json:"source,omitempty"`
	Derivation string          `json:"derivation"`
	Stale      bool            `json:"stale"`
}

// ToRateResponse converts a domain.RateQuote to its API view.
func ToRateResponse(quote *domain.RateQuote) RateResponse {
	return RateResponse{
		From:       quote.Pair.From,
		To:         quote.Pair.To,
		Rate:       quote.Rate,
		UpdatedAt:  quote.UpdatedAt,
		Source:     quote.Source,
		Derivation: string(quote.Derivation),
		Stale:      quote.Stale,
	}
}

// ToListRateResponse converts a slice of quotes.
func ToListRateResponse(quotes []domain.RateQuote) []RateResponse {
	out := make([]RateResponse, len(quotes))
	for i := range quotes {
		out[i] = ToRateResponse(&quotes[i])
	}
	return out
}

// RefreshResponse reports one aggregator run.
type RefreshResponse struct {
	PairCount   int       `json:"pairCount"`
	Sources     []string  `json:"sources"`
	Errors      []string  `json:"errors"`
	ElapsedMS   int64     `json:"elapsedMs"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// ToRefreshResponse converts a domain.RefreshResult to its API view.
func ToRefreshResponse(result *domain.RefreshResult) RefreshResponse {
	errs := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		errs[i] = err.Error()
	}
	return RefreshResponse{
		PairCount:   result.PairCount,
		Sources:     result.Sources,
		Errors:      errs,
		ElapsedMS:   result.Elapsed.Milliseconds(),
		RefreshedAt: result.RefreshedAt,
	}
}

// RateHistoryResponse is the API view of one refresh-history row.
type RateHistoryResponse struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	RequestMS int64           `json:"requestMs"`
}

// ToListRateHistoryResponse converts history records.
func ToListRateHistoryResponse(records []domain.RateHistoryRecord) []RateHistoryResponse {
	out := make([]RateHistoryResponse, len(records))
	for i, rec := range records {
		out[i] = RateHistoryResponse{
			ID:        rec.ID,
			From:      rec.Pair.From,
			To:        rec.Pair.To,
			Rate:      rec.Rate,
			Timestamp: rec.Timestamp,
			Source:    rec.Source,
			RequestMS: rec.RequestMS,
		}
	}
	return out
}
