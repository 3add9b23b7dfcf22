package services

import (
	"log/slog"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsprov "github.com/valutrade/valutrade-hub/internal/core/ports/providers"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/platform/config"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	User        portssvc.UserSvcFacade
	Token       portssvc.TokenSvcFacade
	RateQuery   portssvc.RateQuerySvcFacade
	RateRefresh portssvc.RateRefreshSvcFacade
	RateHistory portssvc.RateHistorySvcFacade
	Portfolio   portssvc.PortfolioSvcFacade
	Ledger      portssvc.LedgerSvcFacade
	Registry    *domain.CurrencyRegistry
}

// Repositories groups the persistence ports a Container is wired from.
type Repositories struct {
	Users      portsrepo.UserRepositoryFacade
	Portfolios portsrepo.PortfolioRepositoryFacade
	Rates      portsrepo.RateRepositoryFacade
}

// NewContainer creates the service graph for the given repositories and
// providers.
func NewContainer(cfg *config.Config, repos Repositories, rateProviders []portsprov.RateProvider, logger *slog.Logger) *Container {
	registry := domain.DefaultCurrencyRegistry()

	rateQuery := NewRateQueryService(repos.Rates, registry, cfg.DefaultBaseCurrency, cfg.RatesTTL)
	rateRefresh := NewRateRefreshService(rateProviders, repos.Rates, cfg.ProviderTimeout, logger)

	return &Container{
		User:        NewUserService(repos.Users, repos.Portfolios, cfg),
		Token:       NewTokenService(cfg),
		RateQuery:   rateQuery,
		RateRefresh: rateRefresh,
		RateHistory: rateRefresh,
		Portfolio:   NewPortfolioService(repos.Portfolios, rateQuery, registry, cfg.DefaultBaseCurrency),
		Ledger:      NewLedgerService(repos.Users, repos.Portfolios, rateQuery, registry, cfg.DefaultBaseCurrency),
		Registry:    registry,
	}
}

// Compile-time checks that the concrete services satisfy their facades.
var (
	_ portssvc.RateQuerySvcFacade   = (*RateQueryService)(nil)
	_ portssvc.RateRefreshSvcFacade = (*RateRefreshService)(nil)
	_ portssvc.RateHistorySvcFacade = (*RateRefreshService)(nil)
)
