package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valutrade/valutrade-hub/internal/core/services"
)

// NewRepositories wires the pgsql backend into the service container's
// repository set.
func NewRepositories(pool *pgxpool.Pool) services.Repositories {
	return services.Repositories{
		Users:      NewPgxUserRepository(pool),
		Portfolios: NewPgxPortfolioRepository(pool),
		Rates:      NewPgxRateRepository(pool),
	}
}
