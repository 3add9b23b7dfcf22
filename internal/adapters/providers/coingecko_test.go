package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutrade/valutrade-hub/internal/adapters/providers"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

var cryptoIDs = map[string]string{"BTC": "bitcoin", "ETH": "ethereum"}

func TestCoinGeckoProvider_FetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":60000.5},"ethereum":{"usd":3000}}`))
	}))
	defer server.Close()

	p := providers.NewCoinGeckoProvider(server.URL, "USD", cryptoIDs, 5*time.Second)
	rates, err := p.FetchRates(context.Background())

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, rates["BTC_USD"].Equal(decimal.RequireFromString("60000.5")))
	assert.True(t, rates["ETH_USD"].Equal(decimal.NewFromInt(3000)))
}

func TestCoinGeckoProvider_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := providers.NewCoinGeckoProvider(server.URL, "USD", cryptoIDs, 5*time.Second)
	_, err := p.FetchRates(context.Background())

	var provErr *apperrors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "coin_gecko", provErr.Source)
}

func TestCoinGeckoProvider_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":`))
	}))
	defer server.Close()

	p := providers.NewCoinGeckoProvider(server.URL, "USD", cryptoIDs, 5*time.Second)
	_, err := p.FetchRates(context.Background())

	var provErr *apperrors.ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestCoinGeckoProvider_MissingAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer server.Close()

	p := providers.NewCoinGeckoProvider(server.URL, "USD", cryptoIDs, 5*time.Second)
	_, err := p.FetchRates(context.Background())

	var provErr *apperrors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Contains(t, provErr.Error(), "ethereum")
}

func TestCoinGeckoProvider_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := providers.NewCoinGeckoProvider(server.URL, "USD", cryptoIDs, time.Second)
	_, err := p.FetchRates(context.Background())

	var provErr *apperrors.ProviderError
	assert.True(t, errors.As(err, &provErr))
}
