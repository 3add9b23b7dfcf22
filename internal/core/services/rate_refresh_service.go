package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsprov "github.com/valutrade/valutrade-hub/internal/core/ports/providers"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

// RateRefreshService aggregates quotes from every configured provider into the
// cached rate table. Providers are independent and unreliable: one failing
// does not abort a refresh, only all of them failing does.
type RateRefreshService struct {
	providers []portsprov.RateProvider
	rateRepo  portsrepo.RateRepositoryFacade
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewRateRefreshService creates a RateRefreshService.
func NewRateRefreshService(providers []portsprov.RateProvider, rateRepo portsrepo.RateRepositoryFacade, timeout time.Duration, logger *slog.Logger) *RateRefreshService {
	return &RateRefreshService{
		providers: providers,
		rateRepo:  rateRepo,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// RefreshRates fetches from the named source ("" means all providers),
// stamps each pair with the retrieval time and source, merges the result into
// the stored table and appends the flat refresh history. Per-provider errors
// are collected into the result for reporting.
func (s *RateRefreshService) RefreshRates(ctx context.Context, source string) (*domain.RefreshResult, error) {
	selected := make([]portsprov.RateProvider, 0, len(s.providers))
	for _, p := range s.providers {
		if source == "" || p.Source() == source {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, apperrors.NewValidationError("unknown rate source '" + source + "'")
	}

	started := s.now()
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Fetches share no state and run concurrently; merging stays sequential.
	type outcome struct {
		source  string
		entries []domain.RateEntry
		err     error
	}
	results := make(chan outcome, len(selected))
	var wg sync.WaitGroup
	for _, p := range selected {
		wg.Add(1)
		go func(p portsprov.RateProvider) {
			defer wg.Done()
			rates, err := p.FetchRates(fetchCtx)
			if err != nil {
				results <- outcome{source: p.Source(), err: err}
				return
			}
			stamped := s.now()
			entries := make([]domain.RateEntry, 0, len(rates))
			for key, rate := range rates {
				pair, perr := domain.ParsePairKey(key)
				if perr != nil {
					s.logger.Warn("Dropping malformed pair from provider",
						slog.String("source", p.Source()), slog.String("key", key))
					continue
				}
				if !rate.IsPositive() {
					// A rate must be strictly positive; reject the pair, keep the rest.
					s.logger.Warn("Rejecting non-positive rate",
						slog.String("source", p.Source()), slog.String("pair", key), slog.String("rate", rate.String()))
					continue
				}
				entries = append(entries, domain.RateEntry{
					Pair:      pair,
					Rate:      rate,
					UpdatedAt: stamped,
					Source:    p.Source(),
				})
			}
			results <- outcome{source: p.Source(), entries: entries}
		}(p)
	}
	wg.Wait()
	close(results)

	merged := make([]domain.RateEntry, 0)
	var fetchErrors []error
	sources := make([]string, 0, len(selected))
	for res := range results {
		if res.err != nil {
			s.logger.Error("Provider fetch failed",
				slog.String("source", res.source), slog.String("error", res.err.Error()))
			fetchErrors = append(fetchErrors, res.err)
			continue
		}
		sources = append(sources, res.source)
		merged = append(merged, res.entries...)
	}

	if len(fetchErrors) == len(selected) {
		// Nothing succeeded; do not persist an empty refresh.
		return nil, &apperrors.RefreshFailedError{Errors: fetchErrors}
	}

	elapsed := s.now().Sub(started)

	if err := s.rateRepo.MergeRates(ctx, merged); err != nil {
		return nil, apperrors.NewPersistenceError("merge rates", err)
	}

	history := make([]domain.RateHistoryRecord, 0, len(merged))
	for _, e := range merged {
		history = append(history, domain.RateHistoryRecord{
			ID:        e.Pair.Key() + "_" + e.Source + "_" + uuid.NewString(),
			Pair:      e.Pair,
			Rate:      e.Rate,
			Timestamp: e.UpdatedAt,
			Source:    e.Source,
			RequestMS: elapsed.Milliseconds(),
		})
	}
	if err := s.rateRepo.AppendRateHistory(ctx, history); err != nil {
		// History is an audit trail; the refresh itself already landed.
		s.logger.Error("Failed to append rate history", slog.String("error", err.Error()))
	}

	s.logger.Info("Rate refresh completed",
		slog.Int("pairs", len(merged)),
		slog.Int("provider_errors", len(fetchErrors)),
		slog.Duration("elapsed", elapsed))

	return &domain.RefreshResult{
		Merged:      merged,
		PairCount:   len(merged),
		Sources:     sources,
		Errors:      fetchErrors,
		Elapsed:     elapsed,
		RefreshedAt: s.now(),
	}, nil
}

// ListRateHistory returns the most recent refresh history rows.
func (s *RateRefreshService) ListRateHistory(ctx context.Context, pairKey string, limit int) ([]domain.RateHistoryRecord, error) {
	var pair *domain.Pair
	if pairKey != "" {
		parsed, err := domain.ParsePairKey(pairKey)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		pair = &parsed
	}
	records, err := s.rateRepo.ListRateHistory(ctx, pair, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list rate history", err)
	}
	return records, nil
}
