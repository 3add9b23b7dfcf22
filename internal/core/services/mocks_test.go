package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsprov "github.com/valutrade/valutrade-hub/internal/core/ports/providers"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock PortfolioRepository ---

type MockPortfolioRepository struct {
	mock.Mock
}

var _ portsrepo.PortfolioRepositoryFacade = (*MockPortfolioRepository)(nil)

func (m *MockPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

// --- Mock RateRepository ---

type MockRateRepository struct {
	mock.Mock
}

var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

func (m *MockRateRepository) LoadRateTable(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RateTable), args.Error(1)
}

func (m *MockRateRepository) MergeRates(ctx context.Context, entries []domain.RateEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockRateRepository) AppendRateHistory(ctx context.Context, records []domain.RateHistoryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRateRepository) ListRateHistory(ctx context.Context, pair *domain.Pair, limit int) ([]domain.RateHistoryRecord, error) {
	args := m.Called(ctx, pair, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateHistoryRecord), args.Error(1)
}

// --- Mock RateQueryService (as used by LedgerService and PortfolioService) ---

type MockRateQueryService struct {
	mock.Mock
}

var _ portssvc.RateQuerySvcFacade = (*MockRateQueryService)(nil)

func (m *MockRateQueryService) GetRate(ctx context.Context, fromCode, toCode string) (*domain.RateQuote, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func (m *MockRateQueryService) Convert(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateQueryService) IsStale(ctx context.Context, fromCode, toCode string) (bool, error) {
	args := m.Called(ctx, fromCode, toCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateQueryService) ListRates(ctx context.Context, filter portssvc.ListRatesFilter) ([]domain.RateQuote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateQuote), args.Error(1)
}

// --- Mock RateProvider ---

type MockRateProvider struct {
	mock.Mock
	source string
}

var _ portsprov.RateProvider = (*MockRateProvider)(nil)

func NewMockRateProvider(source string) *MockRateProvider {
	return &MockRateProvider{source: source}
}

func (m *MockRateProvider) Source() string {
	return m.source
}

func (m *MockRateProvider) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}
