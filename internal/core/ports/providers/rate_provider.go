package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider is one external quote source. Implementations issue a single
// outbound request per fetch, never retry internally and never mutate shared
// state; the returned mapping is fresh on every call.
type RateProvider interface {
	// Source returns the stable source id stamped onto entries from this
	// provider, e.g. "coin_gecko".
	Source() string

	// FetchRates returns pair-key ("BTC_USD") to rate for the provider's
	// fixed pair set. Transport failures, non-success statuses and missing
	// expected keys all collapse to *apperrors.ProviderError.
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}
