package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	AppURL        string
	EncryptionKey string
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Plaid         PlaidConfig
	Stripe        StripeConfig
	Payment       PaymentConfig
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	URL string
}

type PlaidConfig struct {
	ClientID   string
	Secret     string
	Env        string // sandbox | production
	ClientName string
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
}

type PaymentConfig struct {
	Currency     string
	HistoryLimit int
	// HistoryMinAmount hides charges below this many minor units.
	HistoryMinAmount int64
}

// IsDev reports whether console logging and gin debug mode should be used.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// bindings maps viper keys to environment variable names.
var bindings = map[string]string{
	"app.env":                    "APP_ENV",
	"app.url":                    "APP_URL",
	"encryption.key":             "ENCRYPTION_KEY",
	"http.addr":                  "HTTP_ADDR",
	"http.shutdown_timeout":      "HTTP_SHUTDOWN_TIMEOUT",
	"postgres.url":               "DATABASE_URL",
	"plaid.client_id":            "PLAID_CLIENT_ID",
	"plaid.secret":               "PLAID_SECRET",
	"plaid.env":                  "PLAID_ENV",
	"plaid.client_name":          "PLAID_CLIENT_NAME",
	"stripe.secret_key":          "STRIPE_SECRET_KEY",
	"stripe.publishable_key":     "STRIPE_PUBLISHABLE_KEY",
	"payment.currency":           "PAYMENT_CURRENCY",
	"payment.history_limit":      "PAYMENT_HISTORY_LIMIT",
	"payment.history_min_amount": "PAYMENT_HISTORY_MIN_AMOUNT",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in production.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "30s")
	v.SetDefault("plaid.env", "sandbox")
	v.SetDefault("plaid.client_name", "Payment Portal")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("payment.history_limit", 50)
	v.SetDefault("payment.history_min_amount", 1000)

	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		AppURL:        v.GetString("app.url"),
		EncryptionKey: v.GetString("encryption.key"),
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Postgres: PostgresConfig{
			URL: v.GetString("postgres.url"),
		},
		Plaid: PlaidConfig{
			ClientID:   v.GetString("plaid.client_id"),
			Secret:     v.GetString("plaid.secret"),
			Env:        v.GetString("plaid.env"),
			ClientName: v.GetString("plaid.client_name"),
		},
		Stripe: StripeConfig{
			SecretKey:      v.GetString("stripe.secret_key"),
			PublishableKey: v.GetString("stripe.publishable_key"),
		},
		Payment: PaymentConfig{
			Currency:         v.GetString("payment.currency"),
			HistoryLimit:     v.GetInt("payment.history_limit"),
			HistoryMinAmount: v.GetInt64("payment.history_min_amount"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
	}
	if c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.Plaid.ClientID == "" || c.Plaid.Secret == "" {
		return errors.New("PLAID_CLIENT_ID and PLAID_SECRET must both be set")
	}
	if c.Plaid.Env != "sandbox" && c.Plaid.Env != "production" {
		return fmt.Errorf("PLAID_ENV must be sandbox or production, got %q", c.Plaid.Env)
	}
	if c.Stripe.SecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is not set")
	}
	if c.Payment.HistoryLimit <= 0 {
		return fmt.Errorf("PAYMENT_HISTORY_LIMIT must be positive, got %d", c.Payment.HistoryLimit)
	}
	return nil
}
