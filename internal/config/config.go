package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"

	HashCaseUpper = "upper"
	HashCaseLower = "lower"
)

const (
	sandboxCheckoutURL = "https://sandbox.payhere.lk/pay/checkout"
	liveCheckoutURL    = "https://www.payhere.lk/pay/checkout"
)

type Config struct {
	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	AppPort    string `env:"APP_PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	JWTSecret  string `env:"JWT_SECRET"`
	NatsURL    string `env:"NATS_URL"`

	// Callers presenting this key in X-Service-Auth get the internal rate tier.
	InternalKey string `env:"INTERNAL_SECRET_KEY"`

	MerchantID      string `env:"PAYMENT_MERCHANT_ID"`
	MerchantSecret  string `env:"PAYMENT_MERCHANT_SECRET"`
	PaymentMode     string `env:"PAYMENT_MODE" envDefault:"sandbox"`
	DefaultCurrency string `env:"PAYMENT_CURRENCY" envDefault:"LKR"`
	HashCase        string `env:"PAYMENT_HASH_CASE" envDefault:"upper"`
	ReturnURL       string `env:"PAYMENT_RETURN_URL"`
	CancelURL       string `env:"PAYMENT_CANCEL_URL"`
	NotifyURL       string `env:"PAYMENT_NOTIFY_URL"`
	// Overrides the mode-derived hosted checkout endpoint.
	CheckoutEndpoint string `env:"PAYMENT_CHECKOUT_URL"`
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.PaymentMode = strings.ToLower(strings.TrimSpace(cfg.PaymentMode))
	cfg.HashCase = strings.ToLower(strings.TrimSpace(cfg.HashCase))
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.DBHost == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.MerchantID == "" {
		errs = append(errs, errors.New("PAYMENT_MERCHANT_ID is required"))
	}
	if c.MerchantSecret == "" {
		errs = append(errs, errors.New("PAYMENT_MERCHANT_SECRET is required"))
	}
	if c.PaymentMode != ModeSandbox && c.PaymentMode != ModeLive {
		errs = append(errs, fmt.Errorf("PAYMENT_MODE must be %q or %q, got %q", ModeSandbox, ModeLive, c.PaymentMode))
	}
	if c.HashCase != HashCaseUpper && c.HashCase != HashCaseLower {
		errs = append(errs, fmt.Errorf("PAYMENT_HASH_CASE must be %q or %q, got %q", HashCaseUpper, HashCaseLower, c.HashCase))
	}
	if len(c.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("PAYMENT_CURRENCY must be an ISO 4217 code, got %q", c.DefaultCurrency))
	}

	return errors.Join(errs...)
}

// CheckoutURL is the hosted checkout endpoint the signed form is posted to.
func (c *Config) CheckoutURL() string {
	if c.CheckoutEndpoint != "" {
		return c.CheckoutEndpoint
	}
	if c.PaymentMode == ModeLive {
		return liveCheckoutURL
	}
	return sandboxCheckoutURL
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
