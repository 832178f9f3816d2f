package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	MigrationsDir string

	JWTSecret string

	// Expected iss claim on inbound tokens. Empty skips issuer validation.
	JWTIssuer string

	// Shared-secret HMAC key for inbound webhook signatures. Empty disables
	// verification.
	WebhookSecret string

	// Rate limit applied to the webhook ingestion endpoints, in ulule/limiter
	// formatted-rate notation (e.g. "120-M").
	WebhookRateLimit string

	// PayPal REST credentials. Empty client ID disables the PayPal routes.
	PayPalClientID     string `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret string `mapstructure:"PAYPAL_CLIENT_SECRET"`
	PayPalBaseURL      string `mapstructure:"PAYPAL_BASE_URL"`
	PayPalReturnURL    string `mapstructure:"PAYPAL_RETURN_URL"`
	PayPalCancelURL    string `mapstructure:"PAYPAL_CANCEL_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_DIR", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("WEBHOOK_SECRET", "")
	viper.SetDefault("WEBHOOK_RATE_LIMIT", "120-M")
	viper.SetDefault("PAYPAL_CLIENT_ID", "")
	viper.SetDefault("PAYPAL_CLIENT_SECRET", "")
	viper.SetDefault("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("PAYPAL_RETURN_URL", "http://localhost:8080/api/v1/paypal/execute")
	viper.SetDefault("PAYPAL_CANCEL_URL", "http://localhost:8080/api/v1/paypal/cancel")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsDir = viper.GetString("MIGRATIONS_DIR")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.WebhookSecret = viper.GetString("WEBHOOK_SECRET")
	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set. Webhook signature verification is disabled.")
	}
	cfg.WebhookRateLimit = viper.GetString("WEBHOOK_RATE_LIMIT")

	cfg.PayPalClientID = viper.GetString("PAYPAL_CLIENT_ID")
	cfg.PayPalClientSecret = viper.GetString("PAYPAL_CLIENT_SECRET")
	cfg.PayPalBaseURL = viper.GetString("PAYPAL_BASE_URL")
	cfg.PayPalReturnURL = viper.GetString("PAYPAL_RETURN_URL")
	cfg.PayPalCancelURL = viper.GetString("PAYPAL_CANCEL_URL")
	if cfg.PayPalClientID == "" {
		log.Println("Warning: PAYPAL_CLIENT_ID not set. PayPal payments will not function.")
	}

	return cfg, nil
}
