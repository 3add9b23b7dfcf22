package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
)

// LedgerService orchestrates two-leg conversions between a user's base wallet
// and one target-currency wallet. Both legs run against an in-memory copy of
// the portfolio and nothing is persisted until both have succeeded, so a
// failure at any step leaves stored state exactly as it was.
//
// Operations for one user are serialized through a per-user mutex; trades by
// different users run in parallel since portfolios are independent.
type LedgerService struct {
	userRepo      portsrepo.UserReader
	portfolioRepo portsrepo.PortfolioRepositoryFacade
	rateQuery     portssvc.RateQuerySvcFacade
	registry      *domain.CurrencyRegistry
	baseCurrency  string
	userLocks     sync.Map // userID -> *sync.Mutex
	now           func() time.Time
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(userRepo portsrepo.UserReader, portfolioRepo portsrepo.PortfolioRepositoryFacade, rateQuery portssvc.RateQuerySvcFacade, registry *domain.CurrencyRegistry, baseCurrency string) *LedgerService {
	return &LedgerService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		rateQuery:     rateQuery,
		registry:      registry,
		baseCurrency:  strings.ToUpper(baseCurrency),
		now:           time.Now,
	}
}

func (s *LedgerService) lockUser(userID int64) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// validateSession confirms the trade is issued by a known, authenticated user.
func (s *LedgerService) validateSession(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return apperrors.ErrNotLoggedIn
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotLoggedIn
		}
		// A store failure is not an auth failure; let it surface as such.
		return err
	}
	return nil
}

// loadOrCreatePortfolio returns the user's portfolio. Registration creates it,
// but a missing record is repaired with an empty portfolio rather than failing
// the trade outright.
func (s *LedgerService) loadOrCreatePortfolio(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err == nil {
		return portfolio, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	fresh := domain.NewPortfolio(userID)
	return &fresh, nil
}

// Buy converts base-currency funds into amount of the target currency at the
// rate cached at the moment of execution. There is no quote lock: a refresh
// between quoting and trading simply trades at the newer rate.
func (s *LedgerService) Buy(ctx context.Context, userID int64, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	if err := s.validateSession(ctx, userID); err != nil {
		return nil, err
	}

	currency, err := s.registry.Get(currencyCode)
	if err != nil {
		return nil, err
	}
	if currency.Code == s.baseCurrency {
		return nil, apperrors.NewValidationError("cannot buy the base currency " + s.baseCurrency)
	}
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("buy amount must be positive")
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	portfolio, err := s.loadOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rate fetched at the moment of execution.
	cost, err := s.rateQuery.Convert(ctx, currency.Code, s.baseCurrency, amount)
	if err != nil {
		return nil, err
	}
	rate := cost.Div(amount)

	portfolio.EnsureWallet(s.baseCurrency)
	baseWallet, _ := portfolio.Wallet(s.baseCurrency)
	if err := baseWallet.Withdraw(cost); err != nil {
		// Debit failed: the target wallet has not been touched and nothing
		// has been persisted.
		return nil, err
	}

	portfolio.EnsureWallet(currency.Code)
	target, _ := portfolio.Wallet(currency.Code)
	before := target.Balance
	if err := target.Deposit(amount); err != nil {
		return nil, err
	}

	portfolio.SetWallet(baseWallet)
	portfolio.SetWallet(target)
	if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, apperrors.NewPersistenceError("save portfolio", err)
	}

	return &domain.TradeReceipt{
		UserID:        userID,
		Side:          domain.SideBuy,
		CurrencyCode:  currency.Code,
		Amount:        amount,
		Rate:          rate,
		BaseCurrency:  s.baseCurrency,
		BaseDelta:     cost.Neg(),
		BalanceBefore: before,
		BalanceAfter:  target.Balance,
		ExecutedAt:    s.now(),
	}, nil
}

// Sell converts amount of the target currency back into base-currency funds,
// mirroring Buy: debit the target wallet, credit the proceeds, persist once.
func (s *LedgerService) Sell(ctx context.Context, userID int64, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	if err := s.validateSession(ctx, userID); err != nil {
		return nil, err
	}

	currency, err := s.registry.Get(currencyCode)
	if err != nil {
		return nil, err
	}
	if currency.Code == s.baseCurrency {
		return nil, apperrors.NewValidationError("cannot sell the base currency " + s.baseCurrency)
	}
	if amount.IsNegative() {
		return nil, apperrors.NewValidationError("sell amount cannot be negative")
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	portfolio, err := s.loadOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, ok := portfolio.Wallet(currency.Code)
	if !ok {
		return nil, apperrors.NewInsufficientFunds(decimal.Zero, amount, currency.Code)
	}

	proceeds, err := s.rateQuery.Convert(ctx, currency.Code, s.baseCurrency, amount)
	if err != nil {
		return nil, err
	}
	rate := decimal.Zero
	if amount.IsPositive() {
		rate = proceeds.Div(amount)
	}

	before := target.Balance
	if err := target.Withdraw(amount); err != nil {
		return nil, err
	}

	portfolio.EnsureWallet(s.baseCurrency)
	baseWallet, _ := portfolio.Wallet(s.baseCurrency)
	if err := baseWallet.Deposit(proceeds); err != nil {
		return nil, err
	}

	portfolio.SetWallet(target)
	portfolio.SetWallet(baseWallet)
	if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, apperrors.NewPersistenceError("save portfolio", err)
	}

	return &domain.TradeReceipt{
		UserID:        userID,
		Side:          domain.SideSell,
		CurrencyCode:  currency.Code,
		Amount:        amount,
		Rate:          rate,
		BaseCurrency:  s.baseCurrency,
		BaseDelta:     proceeds,
		BalanceBefore: before,
		BalanceAfter:  target.Balance,
		ExecutedAt:    s.now(),
	}, nil
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)
