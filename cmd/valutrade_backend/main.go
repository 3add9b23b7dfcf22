package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsprov "github.com/valutrade/valutrade-hub/internal/core/ports/providers"
	"github.com/valutrade/valutrade-hub/internal/core/services"
	"github.com/valutrade/valutrade-hub/internal/handlers"
	"github.com/valutrade/valutrade-hub/internal/middleware"
	"github.com/valutrade/valutrade-hub/internal/platform/config"
	"github.com/valutrade/valutrade-hub/internal/repositories/database/pgsql"
	"github.com/valutrade/valutrade-hub/internal/repositories/jsonfile"
	"github.com/valutrade/valutrade-hub/pkg/database"

	adapterproviders "github.com/valutrade/valutrade-hub/internal/adapters/providers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialise storage backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	container := services.NewContainer(cfg, repos, buildRateProviders(cfg), logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit spec", slog.String("spec", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	handlers.RegisterRoutes(r, container)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageBackend),
		slog.String("base_currency", cfg.DefaultBaseCurrency))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the persistence backend from config and returns
// the wired repository set plus a cleanup func for main's defer.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (services.Repositories, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePgSQL:
		pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return services.Repositories{}, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			pool.Close()
			return services.Repositories{}, nil, err
		}
		logger.Info("Database connection pool established")
		return pgsql.NewRepositories(pool), pool.Close, nil

	default:
		store, err := jsonfile.NewStore(cfg.DataDir)
		if err != nil {
			return services.Repositories{}, nil, err
		}
		logger.Info("File store opened", slog.String("dir", cfg.DataDir))
		return jsonfile.NewRepositories(store), func() {}, nil
	}
}

func buildRateProviders(cfg *config.Config) []portsprov.RateProvider {
	return []portsprov.RateProvider{
		adapterproviders.NewCoinGeckoProvider(cfg.CoinGeckoAPIURL, cfg.DefaultBaseCurrency, cfg.CryptoIDMap, cfg.ProviderTimeout),
		adapterproviders.NewExchangeratesProvider(cfg.ExchangeratesAPIURL, cfg.ExchangeratesAPIKey, cfg.DefaultBaseCurrency, cfg.FiatCurrencies, cfg.ProviderTimeout),
	}
}

// runMigrations applies pending schema migrations over a short-lived
// database/sql connection, separate from the application pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil {
		return sourceErr
	} else if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied")
	}
	return nil
}
