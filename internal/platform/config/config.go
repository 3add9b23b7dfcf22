package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backend selectors.
const (
	StorageJSONFile = "jsonfile"
	StoragePgSQL    = "pgsql"
)

// Config holds the full application configuration. It is constructed once in
// main and passed by pointer to the components that need it; there is no
// package-level config state.
type Config struct {
	Port         string
	IsProduction bool

	// Record store
	StorageBackend string // jsonfile or pgsql
	DataDir        string // jsonfile backend root
	DatabaseURL    string // pgsql backend DSN

	// Rate engine
	DefaultBaseCurrency string
	RatesTTL            time.Duration
	BootstrapBalance    decimal.Decimal // seeded into every new portfolio, in the base currency

	// Providers
	ProviderTimeout     time.Duration
	CoinGeckoAPIURL     string
	ExchangeratesAPIURL string
	ExchangeratesAPIKey string
	FiatCurrencies      []string          // fetched from ExchangeratesAPI, quoted against the base
	CryptoIDMap         map[string]string // currency code -> CoinGecko id

	// Sessions
	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	// API
	RateLimit string // ulule/limiter formatted spec, e.g. "120-M"
}

// LoadConfig loads configuration from environment variables, with a .env file
// as an optional local override source.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_BACKEND", StorageJSONFile)
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	viper.SetDefault("RATES_TTL_SECONDS", 300)
	viper.SetDefault("BOOTSTRAP_BALANCE", "1000")
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("COINGECKO_API_URL", "https://api.coingecko.com/api/v3/simple")
	viper.SetDefault("EXCHANGERATES_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGERATES_API_KEY", "")
	viper.SetDefault("FIAT_CURRENCIES", "EUR,RUB,CZK")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "valutrade-hub")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		StorageBackend:      strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		DataDir:             viper.GetString("DATA_DIR"),
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		DefaultBaseCurrency: strings.ToUpper(viper.GetString("DEFAULT_BASE_CURRENCY")),
		RatesTTL:            time.Duration(viper.GetInt("RATES_TTL_SECONDS")) * time.Second,
		CoinGeckoAPIURL:     strings.TrimRight(viper.GetString("COINGECKO_API_URL"), "/"),
		ExchangeratesAPIURL: strings.TrimRight(viper.GetString("EXCHANGERATES_API_URL"), "/"),
		ExchangeratesAPIKey: viper.GetString("EXCHANGERATES_API_KEY"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
	}

	switch cfg.StorageBackend {
	case StorageJSONFile, StoragePgSQL:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == StoragePgSQL && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_BACKEND is %s", StoragePgSQL)
	}

	balance, err := decimal.NewFromString(viper.GetString("BOOTSTRAP_BALANCE"))
	if err != nil || balance.IsNegative() {
		return nil, fmt.Errorf("invalid BOOTSTRAP_BALANCE %q", viper.GetString("BOOTSTRAP_BALANCE"))
	}
	cfg.BootstrapBalance = balance

	cfg.ProviderTimeout, err = time.ParseDuration(viper.GetString("PROVIDER_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.JWTExpiryDuration, err = time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}

	for _, code := range strings.Split(viper.GetString("FIAT_CURRENCIES"), ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			cfg.FiatCurrencies = append(cfg.FiatCurrencies, code)
		}
	}

	// CoinGecko quotes crypto by its own asset ids, so the adapter needs this
	// mapping to translate back to currency codes.
	cfg.CryptoIDMap = map[string]string{
		"BTC": "bitcoin",
		"ETH": "ethereum",
		"XMR": "monero",
	}

	return cfg, nil
}
