package jsonfile_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	"github.com/valutrade/valutrade-hub/internal/repositories/jsonfile"
)

func newPortfolioRepo(t *testing.T) *jsonfile.PortfolioRepository {
	t.Helper()
	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)
	return jsonfile.NewPortfolioRepository(store)
}

func TestPortfolioRepository_SaveAndFind(t *testing.T) {
	repo := newPortfolioRepo(t)
	ctx := context.Background()

	portfolio := domain.NewPortfolio(1)
	portfolio.SetWallet(domain.Wallet{CurrencyCode: "USD", Balance: decimal.NewFromInt(400)})
	portfolio.SetWallet(domain.Wallet{CurrencyCode: "BTC", Balance: decimal.NewFromFloat(0.01)})
	require.NoError(t, repo.SavePortfolio(ctx, portfolio))

	loaded, err := repo.FindPortfolioByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.UserID)
	require.Len(t, loaded.Wallets, 2)

	usd, ok := loaded.Wallet("USD")
	require.True(t, ok)
	assert.True(t, usd.Balance.Equal(decimal.NewFromInt(400)))
	btc, ok := loaded.Wallet("BTC")
	require.True(t, ok)
	assert.True(t, btc.Balance.Equal(decimal.NewFromFloat(0.01)))
}

func TestPortfolioRepository_SaveReplacesExisting(t *testing.T) {
	repo := newPortfolioRepo(t)
	ctx := context.Background()

	first := domain.NewPortfolio(1)
	first.SetWallet(domain.Wallet{CurrencyCode: "USD", Balance: decimal.NewFromInt(1000)})
	require.NoError(t, repo.SavePortfolio(ctx, first))

	second := domain.NewPortfolio(1)
	second.SetWallet(domain.Wallet{CurrencyCode: "USD", Balance: decimal.NewFromInt(400)})
	second.SetWallet(domain.Wallet{CurrencyCode: "BTC", Balance: decimal.NewFromFloat(0.01)})
	require.NoError(t, repo.SavePortfolio(ctx, second))

	loaded, err := repo.FindPortfolioByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Wallets, 2)
	usd, _ := loaded.Wallet("USD")
	assert.True(t, usd.Balance.Equal(decimal.NewFromInt(400)))
}

func TestPortfolioRepository_IndependentUsers(t *testing.T) {
	repo := newPortfolioRepo(t)
	ctx := context.Background()

	alice := domain.NewPortfolio(1)
	alice.SetWallet(domain.Wallet{CurrencyCode: "USD", Balance: decimal.NewFromInt(1000)})
	bob := domain.NewPortfolio(2)
	bob.SetWallet(domain.Wallet{CurrencyCode: "EUR", Balance: decimal.NewFromInt(50)})
	require.NoError(t, repo.SavePortfolio(ctx, alice))
	require.NoError(t, repo.SavePortfolio(ctx, bob))

	loaded, err := repo.FindPortfolioByUserID(ctx, 2)
	require.NoError(t, err)
	_, hasUSD := loaded.Wallet("USD")
	assert.False(t, hasUSD)
	eur, ok := loaded.Wallet("EUR")
	require.True(t, ok)
	assert.True(t, eur.Balance.Equal(decimal.NewFromInt(50)))
}

func TestPortfolioRepository_MissingPortfolio(t *testing.T) {
	repo := newPortfolioRepo(t)

	_, err := repo.FindPortfolioByUserID(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
