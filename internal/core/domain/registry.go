package domain

import (
	"sort"
	"strings"

	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

// CurrencyRegistry is the immutable set of known currencies, looked up by
// code. Codes are normalized to upper case on the way in and on lookup, so
// "btc" and "BTC" name the same currency.
type CurrencyRegistry struct {
	byCode map[string]Currency
}

// NewCurrencyRegistry builds a registry from the given definitions.
func NewCurrencyRegistry(currencies ...Currency) *CurrencyRegistry {
	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		c.Code = strings.ToUpper(c.Code)
		byCode[c.Code] = c
	}
	return &CurrencyRegistry{byCode: byCode}
}

// DefaultCurrencyRegistry returns the registry of currencies the engine
// trades out of the box.
func DefaultCurrencyRegistry() *CurrencyRegistry {
	return NewCurrencyRegistry(
		NewFiatCurrency("USD", "US Dollar", "United States"),
		NewFiatCurrency("EUR", "Euro", "Eurozone"),
		NewFiatCurrency("RUB", "Russian Ruble", "Russia"),
		NewFiatCurrency("CZK", "Czech Koruna", "Czech Republic"),
		NewCryptoCurrency("BTC", "Bitcoin", "SHA-256", 1.2e12),
		NewCryptoCurrency("ETH", "Ethereum", "Ethash", 4.5e11),
		NewCryptoCurrency("XMR", "Monero", "RandomX", 3.0e9),
	)
}

// Get resolves a code to its currency. Unknown codes are a distinct error
// condition, not a crash.
func (r *CurrencyRegistry) Get(code string) (Currency, error) {
	c, ok := r.byCode[strings.ToUpper(code)]
	if !ok {
		return Currency{}, apperrors.NewCurrencyNotFound(code)
	}
	return c, nil
}

// Contains reports whether the code is known.
func (r *CurrencyRegistry) Contains(code string) bool {
	_, ok := r.byCode[strings.ToUpper(code)]
	return ok
}

// List returns every known currency ordered by code.
func (r *CurrencyRegistry) List() []Currency {
	out := make([]Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
