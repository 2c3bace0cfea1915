package service

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestReadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
Exchange:
  Name: Binance
`)

	cfg, err := readConfig(dir)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}

	if cfg.Exchange.RESTURL != "https://api.binance.com/api/v3/" {
		t.Fatalf("RESTURL = %q", cfg.Exchange.RESTURL)
	}
	if cfg.Trade.DefaultAsset != "ADA" || cfg.Trade.QuoteCurrency != "BTC" {
		t.Fatalf("unexpected trade defaults: %+v", cfg.Trade)
	}
	if cfg.Trade.DefaultAmount != 0.01 {
		t.Fatalf("DefaultAmount = %v, want 0.01", cfg.Trade.DefaultAmount)
	}
	if cfg.Trade.EntryThreshold != 1.2 || cfg.Trade.ExitThreshold != 1.1 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Trade)
	}
	if cfg.Trade.WaitTimeoutMinutes != 10 || cfg.Trade.PollIntervalSeconds != 2 {
		t.Fatalf("unexpected wait settings: %+v", cfg.Trade)
	}
}

func TestReadConfig_FileOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
Exchange:
  RESTURL: https://testnet.binance.vision/api/v3/
Trade:
  DefaultAsset: LTC
  DefaultAmount: 0.5
  WaitTimeoutMinutes: 3
`)

	cfg, err := readConfig(dir)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}

	if cfg.Exchange.RESTURL != "https://testnet.binance.vision/api/v3/" {
		t.Fatalf("RESTURL = %q", cfg.Exchange.RESTURL)
	}
	if cfg.Trade.DefaultAsset != "LTC" || cfg.Trade.DefaultAmount != 0.5 {
		t.Fatalf("unexpected trade config: %+v", cfg.Trade)
	}
	if cfg.Trade.WaitTimeoutMinutes != 3 {
		t.Fatalf("WaitTimeoutMinutes = %d, want 3", cfg.Trade.WaitTimeoutMinutes)
	}
	// 未覆盖的字段保持默认值
	if cfg.Trade.EntryThreshold != 1.2 {
		t.Fatalf("EntryThreshold = %v, want default 1.2", cfg.Trade.EntryThreshold)
	}
}

func TestReadConfig_KeysFromEnvironment(t *testing.T) {
	dir := writeConfig(t, `
Exchange:
  Name: Binance
`)

	t.Setenv("EXCHANGE_API_KEY", "env-api-key")
	t.Setenv("EXCHANGE_SECRET_KEY", "env-secret-key")

	cfg, err := readConfig(dir)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}

	if cfg.Exchange.APIKey != "env-api-key" {
		t.Fatalf("APIKey = %q, want env-api-key", cfg.Exchange.APIKey)
	}
	if cfg.Exchange.SecretKey != "env-secret-key" {
		t.Fatalf("SecretKey = %q, want env-secret-key", cfg.Exchange.SecretKey)
	}
}

func TestReadConfig_ValidationFailure(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative_amount", "Trade:\n  DefaultAmount: -1\n"},
		{"threshold_below_one", "Trade:\n  EntryThreshold: 0.5\n"},
		{"zero_poll_interval", "Trade:\n  PollIntervalSeconds: 0\n"},
		{"bad_rest_url", "Exchange:\n  RESTURL: not-a-url\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeConfig(t, tc.content)
			if _, err := readConfig(dir); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestReadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := readConfig(t.TempDir())
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Trade.DefaultAsset != "ADA" {
		t.Fatalf("DefaultAsset = %q, want ADA", cfg.Trade.DefaultAsset)
	}
}
