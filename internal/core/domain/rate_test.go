package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

func TestPair_Key(t *testing.T) {
	assert.Equal(t, "BTC_USD", domain.NewPair("btc", "usd").Key())
	assert.Equal(t, "EUR_USD", domain.NewPair("EUR", "USD").Key())
}

func TestParsePairKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    domain.Pair
		wantErr bool
	}{
		{name: "well formed", key: "BTC_USD", want: domain.Pair{From: "BTC", To: "USD"}},
		{name: "lower case normalized", key: "eth_usd", want: domain.Pair{From: "ETH", To: "USD"}},
		{name: "missing separator", key: "BTCUSD", wantErr: true},
		{name: "empty from", key: "_USD", wantErr: true},
		{name: "empty to", key: "BTC_", wantErr: true},
		{name: "empty key", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParsePairKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateEntry_IsStale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 300 * time.Second

	fresh := domain.RateEntry{UpdatedAt: now.Add(-299 * time.Second)}
	assert.False(t, fresh.IsStale(ttl, now))

	boundary := domain.RateEntry{UpdatedAt: now.Add(-300 * time.Second)}
	assert.False(t, boundary.IsStale(ttl, now))

	stale := domain.RateEntry{UpdatedAt: now.Add(-301 * time.Second)}
	assert.True(t, stale.IsStale(ttl, now))
}

func TestRateTable_Merge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	table := domain.NewRateTable()
	assert.True(t, table.IsEmpty())

	table.Merge([]domain.RateEntry{
		{Pair: domain.NewPair("BTC", "USD"), Rate: decimal.NewFromInt(60000), UpdatedAt: now, Source: "coin_gecko"},
		{Pair: domain.NewPair("EUR", "USD"), Rate: decimal.RequireFromString("1.08"), UpdatedAt: now, Source: "exchange_rates"},
	}, now)

	assert.False(t, table.IsEmpty())
	assert.Len(t, table.Pairs, 2)
	assert.Equal(t, now, table.LastRefresh)

	// A later merge overwrites only the pairs it carries.
	table.Merge([]domain.RateEntry{
		{Pair: domain.NewPair("BTC", "USD"), Rate: decimal.NewFromInt(61000), UpdatedAt: later, Source: "coin_gecko"},
	}, later)

	btc, ok := table.Lookup(domain.NewPair("BTC", "USD"))
	assert.True(t, ok)
	assert.True(t, btc.Rate.Equal(decimal.NewFromInt(61000)))
	assert.Equal(t, later, btc.UpdatedAt)

	eur, ok := table.Lookup(domain.NewPair("EUR", "USD"))
	assert.True(t, ok)
	assert.True(t, eur.Rate.Equal(decimal.RequireFromString("1.08")))
	assert.Equal(t, now, eur.UpdatedAt)

	assert.Equal(t, later, table.LastRefresh)
}

func TestRateTable_MergeIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.RateEntry{
		{Pair: domain.NewPair("BTC", "USD"), Rate: decimal.NewFromInt(60000), UpdatedAt: now, Source: "coin_gecko"},
	}

	table := domain.NewRateTable()
	table.Merge(entries, now)
	table.Merge(entries, now)

	assert.Len(t, table.Pairs, 1)
	entry, _ := table.Lookup(domain.NewPair("BTC", "USD"))
	assert.True(t, entry.Rate.Equal(decimal.NewFromInt(60000)))
}
