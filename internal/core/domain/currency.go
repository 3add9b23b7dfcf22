package domain

import "fmt"

// CurrencyKind tags a currency as fiat or crypto.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "FIAT"
	Crypto CurrencyKind = "CRYPTO"
)

// Currency describes one tradable currency. The Kind tag selects which of the
// variant fields are meaningful: IssuingCountry for fiat, Algorithm and
// MarketCap for crypto.
type Currency struct {
	Code           string       `json:"code"` // always upper case, e.g. "USD"
	Name           string       `json:"name"` // e.g. "US Dollar"
	Kind           CurrencyKind `json:"kind"`
	IssuingCountry string       `json:"issuingCountry,omitempty"`
	Algorithm      string       `json:"algorithm,omitempty"`
	MarketCap      float64      `json:"marketCap,omitempty"`
}

// DisplayInfo renders the variant-specific one-line description shown by the
// command surface.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case Crypto:
		return fmt.Sprintf("[CRYPTO] %s (Algorithm: %s, MCAP: %g)", c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT] %s (Issuing: %s)", c.Name, c.IssuingCountry)
	}
}

// NewFiatCurrency builds a fiat currency definition.
func NewFiatCurrency(code, name, issuingCountry string) Currency {
	return Currency{Code: code, Name: name, Kind: Fiat, IssuingCountry: issuingCountry}
}

// NewCryptoCurrency builds a crypto currency definition.
func NewCryptoCurrency(code, name, algorithm string, marketCap float64) Currency {
	return Currency{Code: code, Name: name, Kind: Crypto, Algorithm: algorithm, MarketCap: marketCap}
}
