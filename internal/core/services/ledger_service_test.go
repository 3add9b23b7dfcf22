package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	"github.com/valutrade/valutrade-hub/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	userRepo      *MockUserRepository
	portfolioRepo *MockPortfolioRepository
	rateQuery     *MockRateQueryService
	service       *services.LedgerService
	ctx           context.Context
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.portfolioRepo = new(MockPortfolioRepository)
	s.rateQuery = new(MockRateQueryService)
	s.service = services.NewLedgerService(s.userRepo, s.portfolioRepo, s.rateQuery, domain.DefaultCurrencyRegistry(), "USD")
	s.ctx = context.Background()
}

func (s *LedgerServiceTestSuite) expectUser(userID int64) {
	s.userRepo.On("FindUserByID", mock.Anything, userID).
		Return(&domain.User{UserID: userID, Username: "alice"}, nil)
}

func (s *LedgerServiceTestSuite) fundedPortfolio(userID int64, balances map[string]string) *domain.Portfolio {
	p := domain.NewPortfolio(userID)
	for code, balance := range balances {
		p.SetWallet(domain.Wallet{CurrencyCode: code, Balance: decimal.RequireFromString(balance)})
	}
	return &p
}

func (s *LedgerServiceTestSuite) TestBuy_Success() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "1000"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.RequireFromString("0.01")).
		Return(decimal.NewFromInt(600), nil)
	s.portfolioRepo.On("SavePortfolio", mock.Anything, mock.MatchedBy(func(p domain.Portfolio) bool {
		usd, _ := p.Wallet("USD")
		btc, _ := p.Wallet("BTC")
		return usd.Balance.Equal(decimal.NewFromInt(400)) && btc.Balance.Equal(decimal.RequireFromString("0.01"))
	})).Return(nil)

	receipt, err := s.service.Buy(s.ctx, 1, "btc", decimal.RequireFromString("0.01"))

	s.Require().NoError(err)
	s.Equal(domain.SideBuy, receipt.Side)
	s.Equal("BTC", receipt.CurrencyCode)
	s.True(receipt.Rate.Equal(decimal.NewFromInt(60000)))
	s.True(receipt.BaseDelta.Equal(decimal.NewFromInt(-600)))
	s.True(receipt.BalanceBefore.IsZero())
	s.True(receipt.BalanceAfter.Equal(decimal.RequireFromString("0.01")))
	s.portfolioRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestBuy_InsufficientFundsDoesNotPersist() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "100"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.RequireFromString("0.01")).
		Return(decimal.NewFromInt(600), nil)

	_, err := s.service.Buy(s.ctx, 1, "BTC", decimal.RequireFromString("0.01"))

	var insufficient *apperrors.InsufficientFundsError
	s.Require().True(errors.As(err, &insufficient))
	s.True(insufficient.Available.Equal(decimal.NewFromInt(100)))
	s.True(insufficient.Required.Equal(decimal.NewFromInt(600)))
	s.portfolioRepo.AssertNotCalled(s.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestBuy_MissingPortfolioStartsEmpty() {
	s.expectUser(2)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(2)).
		Return(nil, apperrors.ErrNotFound)
	s.rateQuery.On("Convert", mock.Anything, "ETH", "USD", decimal.NewFromInt(1)).
		Return(decimal.NewFromInt(3000), nil)

	_, err := s.service.Buy(s.ctx, 2, "ETH", decimal.NewFromInt(1))

	// An empty base wallet cannot cover the cost; the trade fails cleanly
	// instead of erroring on the missing record.
	var insufficient *apperrors.InsufficientFundsError
	s.Require().True(errors.As(err, &insufficient))
	s.True(insufficient.Available.IsZero())
	s.portfolioRepo.AssertNotCalled(s.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestBuy_RejectsBaseCurrency() {
	s.expectUser(1)

	_, err := s.service.Buy(s.ctx, 1, "USD", decimal.NewFromInt(10))

	s.ErrorIs(err, apperrors.ErrValidation)
	s.portfolioRepo.AssertNotCalled(s.T(), "FindPortfolioByUserID", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestBuy_RejectsUnknownCurrency() {
	s.expectUser(1)

	_, err := s.service.Buy(s.ctx, 1, "DOGE", decimal.NewFromInt(1))

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestBuy_RejectsNonPositiveAmount() {
	s.expectUser(1)

	_, err := s.service.Buy(s.ctx, 1, "BTC", decimal.Zero)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.Buy(s.ctx, 1, "BTC", decimal.NewFromInt(-1))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestBuy_RequiresSession() {
	_, err := s.service.Buy(s.ctx, 0, "BTC", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNotLoggedIn)

	s.userRepo.On("FindUserByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)
	_, err = s.service.Buy(s.ctx, 99, "BTC", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNotLoggedIn)
}

func (s *LedgerServiceTestSuite) TestSell_Success() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "400", "BTC": "0.01"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.RequireFromString("0.01")).
		Return(decimal.NewFromInt(650), nil)
	s.portfolioRepo.On("SavePortfolio", mock.Anything, mock.MatchedBy(func(p domain.Portfolio) bool {
		usd, _ := p.Wallet("USD")
		btc, _ := p.Wallet("BTC")
		return usd.Balance.Equal(decimal.NewFromInt(1050)) && btc.Balance.IsZero()
	})).Return(nil)

	receipt, err := s.service.Sell(s.ctx, 1, "btc", decimal.RequireFromString("0.01"))

	s.Require().NoError(err)
	s.Equal(domain.SideSell, receipt.Side)
	s.True(receipt.Rate.Equal(decimal.NewFromInt(65000)))
	s.True(receipt.BaseDelta.Equal(decimal.NewFromInt(650)))
	s.True(receipt.BalanceBefore.Equal(decimal.RequireFromString("0.01")))
	s.True(receipt.BalanceAfter.IsZero())
	s.portfolioRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestSell_WithoutWallet() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "1000"}), nil)

	_, err := s.service.Sell(s.ctx, 1, "BTC", decimal.NewFromInt(1))

	var insufficient *apperrors.InsufficientFundsError
	s.Require().True(errors.As(err, &insufficient))
	s.True(insufficient.Available.IsZero())
	s.True(insufficient.Required.Equal(decimal.NewFromInt(1)))
	s.Equal("BTC", insufficient.Code)
}

func (s *LedgerServiceTestSuite) TestSell_Overdraw() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"BTC": "0.01"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.NewFromInt(1)).
		Return(decimal.NewFromInt(60000), nil)

	_, err := s.service.Sell(s.ctx, 1, "BTC", decimal.NewFromInt(1))

	var insufficient *apperrors.InsufficientFundsError
	s.Require().True(errors.As(err, &insufficient))
	s.True(insufficient.Available.Equal(decimal.RequireFromString("0.01")))
	s.portfolioRepo.AssertNotCalled(s.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestSell_ZeroAmountIsANoOpTrade() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"BTC": "0.5"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.Zero).
		Return(decimal.Zero, nil)
	s.portfolioRepo.On("SavePortfolio", mock.Anything, mock.Anything).Return(nil)

	receipt, err := s.service.Sell(s.ctx, 1, "BTC", decimal.Zero)

	s.Require().NoError(err)
	s.True(receipt.Rate.IsZero())
	s.True(receipt.BaseDelta.IsZero())
}

func (s *LedgerServiceTestSuite) TestSell_RejectsNegativeAmount() {
	s.expectUser(1)

	_, err := s.service.Sell(s.ctx, 1, "BTC", decimal.NewFromInt(-1))

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestBuy_UserLookupFailureIsNotAuthFailure() {
	storeErr := apperrors.NewPersistenceError("find user", errors.New("connection refused"))
	s.userRepo.On("FindUserByID", mock.Anything, int64(1)).Return(nil, storeErr)

	_, err := s.service.Buy(s.ctx, 1, "BTC", decimal.NewFromInt(1))

	s.NotErrorIs(err, apperrors.ErrNotLoggedIn)
	var persistence *apperrors.PersistenceError
	s.Require().True(errors.As(err, &persistence))
	s.portfolioRepo.AssertNotCalled(s.T(), "FindPortfolioByUserID", mock.Anything, mock.Anything)
}

// Selling and buying back the same amount against one cached rate table
// must leave the base wallet exactly where it started.
func (s *LedgerServiceTestSuite) TestSellThenBuyRoundTripRestoresBaseBalance() {
	now := time.Now()
	table := domain.NewRateTable()
	table.Merge([]domain.RateEntry{
		{Pair: domain.NewPair("BTC", "USD"), Rate: decimal.NewFromInt(60000), UpdatedAt: now, Source: "coin_gecko"},
	}, now)
	rateRepo := new(MockRateRepository)
	rateRepo.On("LoadRateTable", mock.Anything).Return(table, nil)
	rateQuery := services.NewRateQueryService(rateRepo, domain.DefaultCurrencyRegistry(), "USD", 300*time.Second)
	service := services.NewLedgerService(s.userRepo, s.portfolioRepo, rateQuery, domain.DefaultCurrencyRegistry(), "USD")

	s.expectUser(1)
	var saved domain.Portfolio
	s.portfolioRepo.On("SavePortfolio", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Portfolio) }).
		Return(nil)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "400", "BTC": "0.01"}), nil).Once()

	amount := decimal.RequireFromString("0.01")
	sellReceipt, err := service.Sell(s.ctx, 1, "BTC", amount)
	s.Require().NoError(err)
	s.True(sellReceipt.BaseDelta.Equal(decimal.NewFromInt(600)))
	usd, _ := saved.Wallet("USD")
	s.True(usd.Balance.Equal(decimal.NewFromInt(1000)), "after sell: %s", usd.Balance)

	afterSell := saved
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(&afterSell, nil).Once()

	buyReceipt, err := service.Buy(s.ctx, 1, "BTC", amount)
	s.Require().NoError(err)
	s.True(buyReceipt.BaseDelta.Equal(decimal.NewFromInt(-600)))

	usd, _ = saved.Wallet("USD")
	s.True(usd.Balance.Equal(decimal.NewFromInt(400)), "after buy: %s", usd.Balance)
	btc, _ := saved.Wallet("BTC")
	s.True(btc.Balance.Equal(amount))
}

func (s *LedgerServiceTestSuite) TestBuy_SavePortfolioFailureSurfacesAsPersistence() {
	s.expectUser(1)
	s.portfolioRepo.On("FindPortfolioByUserID", mock.Anything, int64(1)).
		Return(s.fundedPortfolio(1, map[string]string{"USD": "1000"}), nil)
	s.rateQuery.On("Convert", mock.Anything, "BTC", "USD", decimal.RequireFromString("0.01")).
		Return(decimal.NewFromInt(600), nil)
	s.portfolioRepo.On("SavePortfolio", mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	_, err := s.service.Buy(s.ctx, 1, "BTC", decimal.RequireFromString("0.01"))

	var persistence *apperrors.PersistenceError
	s.True(errors.As(err, &persistence))
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
