package config

import (
	"os"
	"path/filepath"
	"testing"

	"equity_analyst/pkg/core/valuation"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("SEC_USER_AGENT", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("CACHE_DIR", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.OutputDir != "runs" {
		t.Errorf("OutputDir = %q, want runs", cfg.OutputDir)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL should default empty, got %q", cfg.DatabaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SEC_USER_AGENT", "me me@example.com")
	t.Setenv("OUTPUT_DIR", "/tmp/analyses")

	cfg := Load()
	if cfg.SECUserAgent != "me me@example.com" {
		t.Errorf("SECUserAgent = %q", cfg.SECUserAgent)
	}
	if cfg.OutputDir != "/tmp/analyses" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadDefaultsEmptyPath(t *testing.T) {
	d, err := LoadDefaults("")
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if d != valuation.StandardDefaults() {
		t.Error("empty path must yield the standard policy")
	}
}

func TestLoadDefaultsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := []byte("terminal_growth_rate: 0.02\nbeta: 1.2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if d.TerminalGrowthRate != 0.02 {
		t.Errorf("TerminalGrowthRate = %v, want 0.02", d.TerminalGrowthRate)
	}
	if d.Beta != 1.2 {
		t.Errorf("Beta = %v, want 1.2", d.Beta)
	}
	// Untouched fields keep the standard policy
	if d.TaxRate != valuation.StandardDefaults().TaxRate {
		t.Errorf("TaxRate = %v, should keep standard value", d.TaxRate)
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	if _, err := LoadDefaults("/nonexistent/policy.yaml"); err == nil {
		t.Error("expected error for missing defaults file")
	}
}

func TestOverridesApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.hjson")
	// HJSON: commentary next to the numbers
	content := []byte(`{
  # pin the discount build-up for this run
  beta: 1.4
  tax_rate: 0.25
}`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}
	d := valuation.StandardDefaults()
	o.Apply(&d)

	if d.Beta != 1.4 {
		t.Errorf("Beta = %v, want 1.4", d.Beta)
	}
	if d.TaxRate != 0.25 {
		t.Errorf("TaxRate = %v, want 0.25", d.TaxRate)
	}
	if d.RiskFreeRate != valuation.StandardDefaults().RiskFreeRate {
		t.Error("absent override fields must leave the policy untouched")
	}
}

func TestOverridesEmptyPath(t *testing.T) {
	o, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}
	d := valuation.StandardDefaults()
	before := d
	o.Apply(&d)
	if d != before {
		t.Error("no overrides must be a no-op")
	}
}
