package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

// PgxRateRepository stores the rate table as one row per pair plus a
// single-row meta table carrying last_refresh. Merges run inside one
// transaction, which serializes them against each other.
type PgxRateRepository struct {
	BaseRepository
	now func() time.Time
}

// NewPgxRateRepository creates a PgxRateRepository.
func NewPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: db}, now: time.Now}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// LoadRateTable returns the persisted table. An unprovisioned store loads as
// an empty table, matching first-run behavior of the file backend.
func (r *PgxRateRepository) LoadRateTable(ctx context.Context) (domain.RateTable, error) {
	table := domain.NewRateTable()

	err := r.Pool.QueryRow(ctx, `SELECT last_refresh FROM rate_table_meta WHERE id = 1`).Scan(&table.LastRefresh)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.RateTable{}, apperrors.NewPersistenceError("load rate table", err)
	}

	rows, err := r.Pool.Query(ctx, `SELECT from_currency, to_currency, rate, updated_at, source FROM rate_pairs`)
	if err != nil {
		return domain.RateTable{}, apperrors.NewPersistenceError("load rate table", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to, source string
		var rate decimal.Decimal
		var updatedAt time.Time
		if err := rows.Scan(&from, &to, &rate, &updatedAt, &source); err != nil {
			return domain.RateTable{}, apperrors.NewPersistenceError("scan rate pair", err)
		}
		pair := domain.NewPair(from, to)
		table.Pairs[pair.Key()] = domain.RateEntry{Pair: pair, Rate: rate, UpdatedAt: updatedAt, Source: source}
	}
	if err := rows.Err(); err != nil {
		return domain.RateTable{}, apperrors.NewPersistenceError("load rate table", err)
	}
	return table, nil
}

// MergeRates upserts the given pairs and advances last_refresh in one
// transaction.
func (r *PgxRateRepository) MergeRates(ctx context.Context, entries []domain.RateEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rate_pairs (pair_key, from_currency, to_currency, rate, updated_at, source)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (pair_key)
			DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at, source = EXCLUDED.source`,
			e.Pair.Key(), e.Pair.From, e.Pair.To, e.Rate, e.UpdatedAt, e.Source,
		); err != nil {
			return apperrors.NewPersistenceError("merge rates", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO rate_table_meta (id, last_refresh)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_refresh = EXCLUDED.last_refresh`,
		r.now(),
	); err != nil {
		return apperrors.NewPersistenceError("merge rates", err)
	}
	return r.Commit(ctx, tx)
}

// AppendRateHistory inserts one refresh's flat history rows.
func (r *PgxRateRepository) AppendRateHistory(ctx context.Context, records []domain.RateHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	for _, rec := range records {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rate_history (id, from_currency, to_currency, rate, recorded_at, source, request_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.Pair.From, rec.Pair.To, rec.Rate, rec.Timestamp, rec.Source, rec.RequestMS,
		); err != nil {
			return apperrors.NewPersistenceError("append rate history", err)
		}
	}
	return r.Commit(ctx, tx)
}

// ListRateHistory returns the most recent history rows, newest first.
func (r *PgxRateRepository) ListRateHistory(ctx context.Context, pair *domain.Pair, limit int) ([]domain.RateHistoryRecord, error) {
	query := `SELECT id, from_currency, to_currency, rate, recorded_at, source, request_ms FROM rate_history`
	args := []any{}
	if pair != nil {
		query += ` WHERE from_currency = $1 AND to_currency = $2`
		args = append(args, pair.From, pair.To)
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		args = append(args, limit)
		if pair != nil {
			query += ` LIMIT $3`
		} else {
			query += ` LIMIT $1`
		}
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list rate history", err)
	}
	defer rows.Close()

	var out []domain.RateHistoryRecord
	for rows.Next() {
		var rec domain.RateHistoryRecord
		var from, to string
		if err := rows.Scan(&rec.ID, &from, &to, &rec.Rate, &rec.Timestamp, &rec.Source, &rec.RequestMS); err != nil {
			return nil, apperrors.NewPersistenceError("scan rate history", err)
		}
		rec.Pair = domain.NewPair(from, to)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("list rate history", err)
	}
	return out, nil
}
