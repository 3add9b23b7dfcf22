package repositories

import (
	"context"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// RateReader defines read operations for the cached rate table.
type RateReader interface {
	// LoadRateTable returns the persisted table. A missing or corrupt store
	// yields an empty table with LastRefresh unset, not an error; callers
	// check IsEmpty before relying on it.
	LoadRateTable(ctx context.Context) (domain.RateTable, error)
}

// RateWriter defines write operations for the cached rate table.
type RateWriter interface {
	// MergeRates loads the existing table, overwrites the pairs present in
	// entries, leaves all other pairs untouched, advances last_refresh and
	// persists the result. Concurrent merges are serialized by the
	// implementation; the load-modify-persist sequence never interleaves.
	MergeRates(ctx context.Context, entries []domain.RateEntry) error
}

// RateHistoryRepository records the append-only per-refresh history.
type RateHistoryRepository interface {
	// AppendRateHistory appends one refresh's flat history rows.
	AppendRateHistory(ctx context.Context, records []domain.RateHistoryRecord) error

	// ListRateHistory returns the most recent history rows, newest first,
	// optionally filtered to one pair. limit <= 0 means no limit.
	ListRateHistory(ctx context.Context, pair *domain.Pair, limit int) ([]domain.RateHistoryRecord, error)
}

// RateRepositoryFacade combines all rate-related repository interfaces.
type RateRepositoryFacade interface {
	RateReader
	RateWriter
	RateHistoryRepository
}
