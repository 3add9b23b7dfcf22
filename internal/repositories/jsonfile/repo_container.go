package jsonfile

import "github.com/valutrade/valutrade-hub/internal/core/services"

// NewRepositories wires the jsonfile backend into the service container's
// repository set.
func NewRepositories(store *Store) services.Repositories {
	return services.Repositories{
		Users:      NewUserRepository(store),
		Portfolios: NewPortfolioRepository(store),
		Rates:      NewRateRepository(store),
	}
}
