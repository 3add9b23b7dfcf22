package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
)

// PortfolioService reads and values user portfolios.
type PortfolioService struct {
	portfolioRepo portsrepo.PortfolioReader
	rateQuery     portssvc.RateQuerySvcFacade
	registry      *domain.CurrencyRegistry
	baseCurrency  string
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(portfolioRepo portsrepo.PortfolioReader, rateQuery portssvc.RateQuerySvcFacade, registry *domain.CurrencyRegistry, baseCurrency string) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		rateQuery:     rateQuery,
		registry:      registry,
		baseCurrency:  strings.ToUpper(baseCurrency),
	}
}

// GetPortfolio returns the user's portfolio valued in baseCode, or the
// configured default base when baseCode is empty. Valuation is all-or-nothing:
// a missing rate for any held currency fails the whole computation rather
// than producing a partial total.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID int64, baseCode string) (*domain.PortfolioValuation, error) {
	base := strings.ToUpper(baseCode)
	if base == "" {
		base = s.baseCurrency
	}
	if _, err := s.registry.Get(base); err != nil {
		return nil, err
	}

	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	valuation := &domain.PortfolioValuation{
		UserID:       userID,
		BaseCurrency: base,
		Wallets:      make([]domain.WalletValuation, 0, len(portfolio.Wallets)),
		Total:        decimal.Zero,
	}

	codes := make([]string, 0, len(portfolio.Wallets))
	for code := range portfolio.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		wallet := portfolio.Wallets[code]
		value, err := s.rateQuery.Convert(ctx, wallet.CurrencyCode, base, wallet.Balance)
		if err != nil {
			return nil, err
		}
		valuation.Wallets = append(valuation.Wallets, domain.WalletValuation{
			CurrencyCode: wallet.CurrencyCode,
			Balance:      wallet.Balance,
			Value:        value,
		})
		valuation.Total = valuation.Total.Add(value)
	}
	return valuation, nil
}

var _ portssvc.PortfolioSvcFacade = (*PortfolioService)(nil)
