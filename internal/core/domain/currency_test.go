package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

func TestCurrency_DisplayInfo(t *testing.T) {
	fiat := domain.NewFiatCurrency("USD", "US Dollar", "United States")
	assert.Equal(t, "[FIAT] US Dollar (Issuing: United States)", fiat.DisplayInfo())

	crypto := domain.NewCryptoCurrency("BTC", "Bitcoin", "SHA-256", 1.2e12)
	assert.Equal(t, "[CRYPTO] Bitcoin (Algorithm: SHA-256, MCAP: 1.2e+12)", crypto.DisplayInfo())
}

func TestCurrencyRegistry_Get(t *testing.T) {
	registry := domain.DefaultCurrencyRegistry()

	t.Run("known code", func(t *testing.T) {
		c, err := registry.Get("BTC")
		assert.NoError(t, err)
		assert.Equal(t, "BTC", c.Code)
		assert.Equal(t, domain.Crypto, c.Kind)
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		c, err := registry.Get("eur")
		assert.NoError(t, err)
		assert.Equal(t, "EUR", c.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := registry.Get("DOGE")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		var notFound *apperrors.CurrencyNotFoundError
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, "DOGE", notFound.Code)
	})
}

func TestCurrencyRegistry_List(t *testing.T) {
	registry := domain.DefaultCurrencyRegistry()
	currencies := registry.List()

	assert.Len(t, currencies, 7)
	// Ordered by code.
	for i := 1; i < len(currencies); i++ {
		assert.Less(t, currencies[i-1].Code, currencies[i].Code)
	}
	assert.True(t, registry.Contains("xmr"))
	assert.False(t, registry.Contains("GBP"))
}
