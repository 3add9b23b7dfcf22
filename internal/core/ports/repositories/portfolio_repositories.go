package repositories

import (
	"context"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio records.
type PortfolioReader interface {
	// FindPortfolioByUserID retrieves the single portfolio owned by a user.
	// Missing portfolios map to apperrors.ErrNotFound.
	FindPortfolioByUserID(ctx context.Context, userID int64) (*domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio records.
type PortfolioWriter interface {
	// SavePortfolio persists the portfolio and all of its wallets as one unit.
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error
}

// PortfolioRepositoryFacade combines all portfolio-related repository interfaces.
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioWriter
}
