package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	AuthFirebase = "firebase"
	AuthJWKS     = "jwks"
	AuthLocal    = "local"

	defaultJWTSecret = "dev-secret-change-me"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	CORSOrigins []string

	FirebaseProject            string
	FirebaseAPIKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	StoreDriver        string
	StoreTxMaxAttempts int
	RequestTimeout     time.Duration

	AuthProvider string
	JWTSecret    string
	JWTExpiry    int64
	JWKSURL      string
	JWTIssuer    string
	JWTAudience  string

	PricingFile       string
	WelcomeBonusCoins int64
	CoinPayoutRate    decimal.Decimal
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		StoreTxMaxAttempts: int(getEnvAsInt64("STORE_TX_MAX_ATTEMPTS", 5)),
		RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),

		AuthProvider: strings.ToLower(getEnv("AUTH_PROVIDER", AuthFirebase)),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:    getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		JWKSURL:      getEnv("JWKS_URL", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", ""),
		JWTAudience:  getEnv("JWT_AUDIENCE", ""),

		PricingFile:       getEnv("PRICING_FILE", ""),
		WelcomeBonusCoins: getEnvAsInt64("WELCOME_BONUS_COINS", 100),
	}

	rate, err := decimal.NewFromString(getEnv("COIN_PAYOUT_RATE", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid COIN_PAYOUT_RATE: %w", err)
	}
	config.CoinPayoutRate = rate

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthProvider {
	case AuthFirebase, AuthLocal:
	case AuthJWKS:
		if c.JWKSURL == "" {
			return fmt.Errorf("JWKS_URL is required when AUTH_PROVIDER=jwks")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.CoinPayoutRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("COIN_PAYOUT_RATE must be positive")
	}
	if c.WelcomeBonusCoins < 0 {
		return fmt.Errorf("WELCOME_BONUS_COINS must not be negative")
	}
	if c.StoreTxMaxAttempts < 1 {
		return fmt.Errorf("STORE_TX_MAX_ATTEMPTS must be at least 1")
	}

	if c.IsProduction() && (c.StoreDriver == StoreMemory || c.AuthProvider == AuthLocal) {
		return fmt.Errorf("memory store and local auth are not allowed in production")
	}
	if c.AuthProvider == AuthLocal && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=local")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
