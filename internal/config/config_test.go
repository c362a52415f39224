package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s, want 2h", cfg.SessionTTL)
	}
	if cfg.Billing.FeeVisa != 5000 || cfg.Billing.FeeSlot != 20000 || cfg.Billing.FeeDropbox != 20000 {
		t.Errorf("unexpected fee defaults %+v", cfg.Billing)
	}
	if cfg.Export.Store != "none" {
		t.Errorf("Export.Store = %q, want none", cfg.Export.Store)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("BILLING_FEE_VISA", "6500")
	t.Setenv("ISSUER_NAME", "Acme Visa Services")
	t.Setenv("ISSUER_ADDRESS", "Line one|Line two")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Billing.FeeVisa != 6500 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Billing.IssuerName != "Acme Visa Services" || len(cfg.Billing.IssuerAddress) != 2 {
		t.Errorf("issuer not parsed: %+v", cfg.Billing)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"SESSION_SECRET": ""}, "SESSION_SECRET"},
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}, "parse env:"},
		{"bad store", map[string]string{"EXPORT_STORE": "ftp"}, "EXPORT_STORE"},
		{"r2 without bucket", map[string]string{"EXPORT_STORE": "r2", "R2_ACCOUNT_ID": "acct"}, "R2_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBillingConversions(t *testing.T) {
	b := Billing{FeeVisa: 1, FeeSlot: 2, FeeDropbox: 3, IssuerName: "Acme"}

	fees := b.Fees()
	if fees["visa"] != 1 || fees["slot"] != 2 || fees["dropbox"] != 3 {
		t.Errorf("Fees() = %v", fees)
	}
	issuer := b.Issuer()
	if issuer.Name != "Acme" || len(issuer.AddressLines) != 3 || issuer.Title != "Billing Invoice" {
		t.Errorf("Issuer() = %+v", issuer)
	}
}
