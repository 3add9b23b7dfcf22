package dto

import (
	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// WalletResponse is one valued wallet line of a portfolio view.
type WalletResponse struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Value        decimal.Decimal `json:"value"`
}

// PortfolioResponse is the API view of a valued portfolio.
type PortfolioResponse struct {
	UserID       int64            `json:"userID"`
	BaseCurrency string           `json:"baseCurrency"`
	Wallets      []WalletResponse `json:"wallets"`
	Total        decimal.Decimal  `json:"total"`
}

// ToPortfolioResponse converts a domain.PortfolioValuation to its API view.
func ToPortfolioResponse(valuation *domain.PortfolioValuation) PortfolioResponse {
	wallets := make([]WalletResponse, len(valuation.Wallets))
	for i, w := range valuation.Wallets {
		wallets[i] = WalletResponse{CurrencyCode: w.CurrencyCode, Balance: w.Balance, Value: w.Value}
	}
	return PortfolioResponse{
		UserID:       valuation.UserID,
		BaseCurrency: valuation.BaseCurrency,
		Wallets:      wallets,
		Total:        valuation.Total,
	}
}

// CurrencyResponse is the API view of one registry currency.
type CurrencyResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	DisplayInfo string `json:"displayInfo"`
}

// ToListCurrencyResponse converts registry currencies.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		out[i] = CurrencyResponse{Code: c.Code, Name: c.Name, Kind: string(c.Kind), DisplayInfo: c.DisplayInfo()}
	}
	return out
}
