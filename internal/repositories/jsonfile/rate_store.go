package jsonfile

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

const (
	ratesFile   = "rates.json"
	historyFile = "exchange_rates.json"
)

// rateTableRecord is the persisted shape of the rate table.
type rateTableRecord struct {
	Pairs       map[string]ratePairRecord `json:"pairs"`
	LastRefresh string                    `json:"last_refresh,omitempty"`
}

type ratePairRecord struct {
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source"`
}

type rateHistoryRecord struct {
	ID           string  `json:"id"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         float64 `json:"rate"`
	Timestamp    string  `json:"timestamp"`
	Source       string  `json:"source"`
	RequestMS    int64   `json:"request_ms"`
}

// RateRepository persists the rate table and its refresh history as JSON files.
type RateRepository struct {
	store *Store
	now   func() time.Time
}

// NewRateRepository creates a RateRepository over the store.
func NewRateRepository(store *Store) *RateRepository {
	return &RateRepository{store: store, now: time.Now}
}

func (r *RateRepository) loadTableRecord() (rateTableRecord, error) {
	var record rateTableRecord
	err := r.store.readJSON(ratesFile, &record)
	if err != nil {
		if missingOrCorrupt(err) {
			// First run, or a store someone damaged by hand: both start over
			// with an empty table rather than failing.
			return rateTableRecord{Pairs: map[string]ratePairRecord{}}, nil
		}
		return rateTableRecord{}, err
	}
	if record.Pairs == nil {
		record.Pairs = map[string]ratePairRecord{}
	}
	return record, nil
}

// LoadRateTable returns the persisted table, or an empty one when the store
// is missing or corrupt.
func (r *RateRepository) LoadRateTable(ctx context.Context) (domain.RateTable, error) {
	record, err := r.loadTableRecord()
	if err != nil {
		return domain.RateTable{}, apperrors.NewPersistenceError("load rate table", err)
	}

	table := domain.NewRateTable()
	if record.LastRefresh != "" {
		table.LastRefresh = parseTime(record.LastRefresh)
	}
	for key, pairRecord := range record.Pairs {
		pair, err := domain.ParsePairKey(key)
		if err != nil {
			continue
		}
		table.Pairs[pair.Key()] = domain.RateEntry{
			Pair:      pair,
			Rate:      decimal.NewFromFloat(pairRecord.Rate),
			UpdatedAt: parseTime(pairRecord.UpdatedAt),
			Source:    pairRecord.Source,
		}
	}
	return table, nil
}

// MergeRates overwrites the given pairs in the persisted table, leaves every
// other pair untouched and advances last_refresh. The whole load-modify-persist
// sequence holds the table mutex, so concurrent merges never interleave.
func (r *RateRepository) MergeRates(ctx context.Context, entries []domain.RateEntry) error {
	r.store.ratesMu.Lock()
	defer r.store.ratesMu.Unlock()

	record, err := r.loadTableRecord()
	if err != nil {
		return apperrors.NewPersistenceError("merge rates", err)
	}

	for _, e := range entries {
		record.Pairs[e.Pair.Key()] = ratePairRecord{
			Rate:      e.Rate.InexactFloat64(),
			UpdatedAt: formatTime(e.UpdatedAt),
			Source:    e.Source,
		}
	}
	record.LastRefresh = formatTime(r.now())

	if err := r.store.writeJSON(ratesFile, record); err != nil {
		return apperrors.NewPersistenceError("merge rates", err)
	}
	return nil
}

// AppendRateHistory appends one refresh's flat history rows.
func (r *RateRepository) AppendRateHistory(ctx context.Context, records []domain.RateHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	r.store.historyMu.Lock()
	defer r.store.historyMu.Unlock()

	var existing []rateHistoryRecord
	if err := r.store.readJSON(historyFile, &existing); err != nil && !missingOrCorrupt(err) {
		return apperrors.NewPersistenceError("append rate history", err)
	}

	for _, rec := range records {
		existing = append(existing, rateHistoryRecord{
			ID:           rec.ID,
			FromCurrency: rec.Pair.From,
			ToCurrency:   rec.Pair.To,
			Rate:         rec.Rate.InexactFloat64(),
			Timestamp:    formatTime(rec.Timestamp),
			Source:       rec.Source,
			RequestMS:    rec.RequestMS,
		})
	}

	if err := r.store.writeJSON(historyFile, existing); err != nil {
		return apperrors.NewPersistenceError("append rate history", err)
	}
	return nil
}

// ListRateHistory returns the most recent history rows, newest first.
func (r *RateRepository) ListRateHistory(ctx context.Context, pair *domain.Pair, limit int) ([]domain.RateHistoryRecord, error) {
	r.store.historyMu.Lock()
	defer r.store.historyMu.Unlock()

	var records []rateHistoryRecord
	if err := r.store.readJSON(historyFile, &records); err != nil {
		if missingOrCorrupt(err) {
			return nil, nil
		}
		return nil, apperrors.NewPersistenceError("list rate history", err)
	}

	out := make([]domain.RateHistoryRecord, 0, len(records))
	for _, rec := range records {
		p := domain.NewPair(rec.FromCurrency, rec.ToCurrency)
		if pair != nil && p.Key() != pair.Key() {
			continue
		}
		out = append(out, domain.RateHistoryRecord{
			ID:        rec.ID,
			Pair:      p,
			Rate:      decimal.NewFromFloat(rec.Rate),
			Timestamp: parseTime(rec.Timestamp),
			Source:    rec.Source,
			RequestMS: rec.RequestMS,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ portsrepo.RateRepositoryFacade = (*RateRepository)(nil)
