package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

// SourceCoinGecko is the source id stamped onto entries fetched from CoinGecko.
const SourceCoinGecko = "coin_gecko"

// CoinGeckoProvider fetches crypto spot prices quoted in the base currency.
// CoinGecko keys its response by asset id ("bitcoin"), so the provider carries
// a code -> id map and translates back to pair keys ("BTC_USD") on the way out.
type CoinGeckoProvider struct {
	client       *http.Client
	apiURL       string
	baseCurrency string
	idByCode     map[string]string
}

// NewCoinGeckoProvider creates a provider for the given crypto code -> id map.
func NewCoinGeckoProvider(apiURL, baseCurrency string, idByCode map[string]string, timeout time.Duration) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:       &http.Client{Timeout: timeout},
		apiURL:       strings.TrimRight(apiURL, "/"),
		baseCurrency: strings.ToUpper(baseCurrency),
		idByCode:     idByCode,
	}
}

func (p *CoinGeckoProvider) Source() string {
	return SourceCoinGecko
}

// FetchRates issues one simple/price request covering every configured asset.
func (p *CoinGeckoProvider) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(p.idByCode))
	for _, id := range p.idByCode {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	reqURL := fmt.Sprintf("%s/price?ids=%s&vs_currencies=%s",
		p.apiURL, url.QueryEscape(strings.Join(ids, ",")), url.QueryEscape(strings.ToLower(p.baseCurrency)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewProviderError(SourceCoinGecko, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(SourceCoinGecko, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError(SourceCoinGecko, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewProviderError(SourceCoinGecko, fmt.Errorf("decoding response: %w", err))
	}

	vsKey := strings.ToLower(p.baseCurrency)
	rates := make(map[string]decimal.Decimal, len(p.idByCode))
	for code, id := range p.idByCode {
		quoted, ok := payload[id]
		if !ok {
			return nil, apperrors.NewProviderError(SourceCoinGecko, fmt.Errorf("asset %q missing from response", id))
		}
		rate, ok := quoted[vsKey]
		if !ok {
			return nil, apperrors.NewProviderError(SourceCoinGecko, fmt.Errorf("no %s quote for asset %q", p.baseCurrency, id))
		}
		rates[strings.ToUpper(code)+"_"+p.baseCurrency] = rate
	}
	return rates, nil
}
