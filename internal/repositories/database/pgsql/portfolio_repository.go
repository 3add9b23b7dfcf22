package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

// PgxPortfolioRepository stores portfolios as wallet rows keyed by
// (user_id, currency_code). A portfolio is saved as one transaction, so a
// partially-written wallet set is never visible.
type PgxPortfolioRepository struct {
	BaseRepository
}

// NewPgxPortfolioRepository creates a PgxPortfolioRepository.
func NewPgxPortfolioRepository(db *pgxpool.Pool) *PgxPortfolioRepository {
	return &PgxPortfolioRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.PortfolioRepositoryFacade = (*PgxPortfolioRepository)(nil)

// FindPortfolioByUserID retrieves the portfolio owned by a user.
func (r *PgxPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, balance
		FROM wallets
		WHERE user_id = $1
		ORDER BY currency_code`, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("find portfolio", err)
	}
	defer rows.Close()

	portfolio := domain.NewPortfolio(userID)
	found := false
	for rows.Next() {
		var code string
		var balance decimal.Decimal
		if err := rows.Scan(&code, &balance); err != nil {
			return nil, apperrors.NewPersistenceError("scan wallet", err)
		}
		portfolio.SetWallet(domain.Wallet{CurrencyCode: code, Balance: balance})
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("find portfolio", err)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}
	return &portfolio, nil
}

// SavePortfolio replaces the user's wallet rows in one transaction.
func (r *PgxPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM wallets WHERE user_id = $1`, portfolio.UserID); err != nil {
		return apperrors.NewPersistenceError("save portfolio", err)
	}
	for _, wallet := range portfolio.Wallets {
		if _, err := tx.Exec(ctx, `
			INSERT INTO wallets (user_id, currency_code, balance)
			VALUES ($1, $2, $3)`,
			portfolio.UserID, wallet.CurrencyCode, wallet.Balance,
		); err != nil {
			return apperrors.NewPersistenceError("save portfolio", err)
		}
	}
	return r.Commit(ctx, tx)
}
