package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

// SourceExchangerates is the source id for the ExchangeratesAPI provider.
const SourceExchangerates = "exchange_rates"

// ExchangeratesProvider fetches fiat rates from exchangerate-api.com. The API
// quotes base -> CUR, while the cache stores CUR -> base, so each rate is
// inverted before it leaves the adapter.
type ExchangeratesProvider struct {
	client       *http.Client
	apiURL       string
	apiKey       string
	baseCurrency string
	currencies   []string
}

// NewExchangeratesProvider creates a provider for the given fiat code set.
func NewExchangeratesProvider(apiURL, apiKey, baseCurrency string, currencies []string, timeout time.Duration) *ExchangeratesProvider {
	return &ExchangeratesProvider{
		client:       &http.Client{Timeout: timeout},
		apiURL:       strings.TrimRight(apiURL, "/"),
		apiKey:       apiKey,
		baseCurrency: strings.ToUpper(baseCurrency),
		currencies:   currencies,
	}
}

func (p *ExchangeratesProvider) Source() string {
	return SourceExchangerates
}

// FetchRates issues one latest/{base} request and inverts each quoted rate.
func (p *ExchangeratesProvider) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/%s/latest/%s", p.apiURL, p.apiKey, p.baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewProviderError(SourceExchangerates, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(SourceExchangerates, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError(SourceExchangerates, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload struct {
		ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewProviderError(SourceExchangerates, fmt.Errorf("decoding response: %w", err))
	}
	if payload.ConversionRates == nil {
		return nil, apperrors.NewProviderError(SourceExchangerates, fmt.Errorf("conversion_rates missing from response"))
	}

	rates := make(map[string]decimal.Decimal, len(p.currencies))
	for _, code := range p.currencies {
		code = strings.ToUpper(code)
		quoted, ok := payload.ConversionRates[code]
		if !ok {
			return nil, apperrors.NewProviderError(SourceExchangerates, fmt.Errorf("currency %q missing from response", code))
		}
		if !quoted.IsPositive() {
			return nil, apperrors.NewProviderError(SourceExchangerates, fmt.Errorf("non-positive quote %s for %q", quoted, code))
		}
		rates[code+"_"+p.baseCurrency] = decimal.NewFromInt(1).Div(quoted)
	}
	return rates, nil
}
