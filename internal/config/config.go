// Package config loads runtime settings from the environment, reading a
// local .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"formdesk-backend/internal/billing"
)

// Config holds every setting the API needs.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	CORSOrigins   []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200,http://localhost:3000"`

	RateLimit RateLimit
	Billing   Billing
	Export    Export
}

// RateLimit configures the per-IP limiter on session creation.
type RateLimit struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0.5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Billing overrides the fee table and invoice header.
type Billing struct {
	FeeVisa       float64  `env:"BILLING_FEE_VISA" envDefault:"5000"`
	FeeSlot       float64  `env:"BILLING_FEE_SLOT" envDefault:"20000"`
	FeeDropbox    float64  `env:"BILLING_FEE_DROPBOX" envDefault:"20000"`
	IssuerName    string   `env:"ISSUER_NAME"`
	IssuerAddress []string `env:"ISSUER_ADDRESS" envSeparator:"|"`
}

// Fees builds the fee table for new invoices.
func (b Billing) Fees() billing.FeeTable {
	return billing.FeeTable{
		billing.BillTypeVisa:    b.FeeVisa,
		billing.BillTypeSlot:    b.FeeSlot,
		billing.BillTypeDropbox: b.FeeDropbox,
	}
}

// Issuer returns the invoice header, falling back to the default issuer for
// anything left unset.
func (b Billing) Issuer() billing.Issuer {
	issuer := billing.DefaultIssuer()
	if b.IssuerName != "" {
		issuer.Name = b.IssuerName
	}
	if len(b.IssuerAddress) > 0 {
		issuer.AddressLines = b.IssuerAddress
	}
	return issuer
}

// Export selects where rendered invoices are archived.
type Export struct {
	Store   string `env:"EXPORT_STORE" envDefault:"none"` // none | local | r2
	Dir     string `env:"EXPORT_DIR" envDefault:"exports"`
	BaseURL string `env:"EXPORT_BASE_URL" envDefault:"http://localhost:8080/api/exports"`

	R2AccountID string `env:"R2_ACCOUNT_ID"`
	R2AccessKey string `env:"R2_ACCESS_KEY"`
	R2SecretKey string `env:"R2_SECRET_KEY"`
	R2Bucket    string `env:"R2_BUCKET"`
	R2PublicURL string `env:"R2_PUBLIC_URL"`
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be set (min 16 characters)")
	}
	if c.SessionTTL <= 0 || c.SweepInterval <= 0 {
		return errors.New("SESSION_TTL and SWEEP_INTERVAL must be positive")
	}
	switch c.Export.Store {
	case "none", "local":
	case "r2":
		if c.Export.R2AccountID == "" || c.Export.R2Bucket == "" {
			return errors.New("EXPORT_STORE=r2 needs R2_ACCOUNT_ID and R2_BUCKET")
		}
	default:
		return fmt.Errorf("EXPORT_STORE must be none, local or r2, got %q", c.Export.Store)
	}
	return nil
}
