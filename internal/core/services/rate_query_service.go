package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
)

// RateQueryService answers rate lookups against the cached table. Every
// stored pair is quoted against the configured base currency; rates between
// two non-base currencies are derived through it.
type RateQueryService struct {
	rateRepo     portsrepo.RateReader
	registry     *domain.CurrencyRegistry
	baseCurrency string
	ttl          time.Duration
	now          func() time.Time
}

// NewRateQueryService creates a RateQueryService.
func NewRateQueryService(rateRepo portsrepo.RateReader, registry *domain.CurrencyRegistry, baseCurrency string, ttl time.Duration) *RateQueryService {
	return &RateQueryService{
		rateRepo:     rateRepo,
		registry:     registry,
		baseCurrency: strings.ToUpper(baseCurrency),
		ttl:          ttl,
		now:          time.Now,
	}
}

// leg is one half of a cross-rate derivation: the stored CODE_BASE entry, or
// the identity leg when the code is the base currency itself.
type leg struct {
	rate      decimal.Decimal
	updatedAt time.Time
	source    string
	identity  bool
}

func (s *RateQueryService) lookupLeg(table domain.RateTable, code string) (leg, error) {
	if code == s.baseCurrency {
		// The base against itself is 1.0 by definition; there is no stored
		// self-referential pair to consult.
		return leg{rate: decimal.NewFromInt(1), identity: true}, nil
	}
	entry, ok := table.Lookup(domain.NewPair(code, s.baseCurrency))
	if !ok {
		return leg{}, apperrors.NewRateNotFound(code, s.baseCurrency)
	}
	if !entry.Rate.IsPositive() {
		// Stored rates are strictly positive; finding one that isn't means the
		// table was corrupted outside the merge path.
		return leg{}, apperrors.NewPersistenceError("rate lookup",
			apperrors.NewValidationError("non-positive stored rate for "+entry.Pair.Key()))
	}
	return leg{rate: entry.Rate, updatedAt: entry.UpdatedAt, source: entry.Source}, nil
}

// GetRate quotes fromCode -> toCode. Both codes must name known currencies.
// The quote carries an advisory staleness flag; the rate is returned either way.
func (s *RateQueryService) GetRate(ctx context.Context, fromCode, toCode string) (*domain.RateQuote, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if _, err := s.registry.Get(fromCode); err != nil {
		return nil, err
	}
	if _, err := s.registry.Get(toCode); err != nil {
		return nil, err
	}

	table, err := s.rateRepo.LoadRateTable(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load rate table", err)
	}

	fromLeg, err := s.lookupLeg(table, fromCode)
	if err != nil {
		return nil, err
	}
	toLeg, err := s.lookupLeg(table, toCode)
	if err != nil {
		return nil, err
	}

	quote := &domain.RateQuote{
		Pair: domain.NewPair(fromCode, toCode),
		Rate: fromLeg.rate.Div(toLeg.rate),
	}

	switch {
	case fromLeg.identity && toLeg.identity:
		quote.Derivation = domain.DerivationDirect
	case toLeg.identity:
		quote.Derivation = domain.DerivationDirect
		quote.UpdatedAt = fromLeg.updatedAt
		quote.Source = fromLeg.source
	case fromLeg.identity:
		quote.Derivation = domain.DerivationInverse
		quote.UpdatedAt = toLeg.updatedAt
		quote.Source = toLeg.source
	default:
		quote.Derivation = domain.DerivationCross
		// The derived quote is only as fresh as its older leg.
		quote.UpdatedAt = fromLeg.updatedAt
		quote.Source = fromLeg.source
		if toLeg.updatedAt.Before(fromLeg.updatedAt) {
			quote.UpdatedAt = toLeg.updatedAt
			quote.Source = toLeg.source
		}
	}

	if !quote.UpdatedAt.IsZero() {
		quote.Stale = s.now().Sub(quote.UpdatedAt) > s.ttl
	}
	return quote, nil
}

// Convert values amount of fromCode in toCode at the current cached rate.
func (s *RateQueryService) Convert(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.NewValidationError("amount cannot be negative")
	}
	quote, err := s.GetRate(ctx, fromCode, toCode)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(quote.Rate), nil
}

// IsStale reports whether the stored entry for a pair is older than the
// configured time-to-live. Staleness is advisory, never enforced.
func (s *RateQueryService) IsStale(ctx context.Context, fromCode, toCode string) (bool, error) {
	table, err := s.rateRepo.LoadRateTable(ctx)
	if err != nil {
		return false, apperrors.NewPersistenceError("load rate table", err)
	}
	entry, ok := table.Lookup(domain.NewPair(fromCode, toCode))
	if !ok {
		return false, apperrors.NewRateNotFound(fromCode, toCode)
	}
	return entry.IsStale(s.ttl, s.now()), nil
}

// ListRates quotes every currency held in the table against the requested
// base, filtered and trimmed per the filter.
func (s *RateQueryService) ListRates(ctx context.Context, filter portssvc.ListRatesFilter) ([]domain.RateQuote, error) {
	base := strings.ToUpper(filter.BaseCurrency)
	if base == "" {
		base = s.baseCurrency
	}
	if _, err := s.registry.Get(base); err != nil {
		return nil, err
	}
	currencyFilter := strings.ToUpper(filter.CurrencyCode)
	if currencyFilter != "" {
		if _, err := s.registry.Get(currencyFilter); err != nil {
			return nil, err
		}
	}

	table, err := s.rateRepo.LoadRateTable(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load rate table", err)
	}

	quotes := make([]domain.RateQuote, 0, len(table.Pairs))
	for _, entry := range table.Pairs {
		code := entry.Pair.From
		if currencyFilter != "" && code != currencyFilter {
			continue
		}
		if !s.registry.Contains(code) || code == base {
			continue
		}
		quote, err := s.GetRate(ctx, code, base)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}

	sort.Slice(quotes, func(i, j int) bool {
		if !quotes[i].Rate.Equal(quotes[j].Rate) {
			return quotes[i].Rate.GreaterThan(quotes[j].Rate)
		}
		return quotes[i].Pair.Key() < quotes[j].Pair.Key()
	})
	if filter.Top > 0 && len(quotes) > filter.Top {
		quotes = quotes[:filter.Top]
	}
	return quotes, nil
}
