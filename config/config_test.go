package config

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/reserve"
)

func env(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv() failed: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.LogLevel != "info" || cfg.RemotePath != "$.data" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTL != time.Minute || cfg.RateLimit != 0 || cfg.CostMethod != reserve.AverageCost {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Rates) != 0 {
		t.Errorf("Rates = %v, want none", cfg.Rates)
	}
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"FXR_LEDGER_FILE": " desk.jsonl ",
		"FXR_DSN":         "postgres://localhost/console",
		"FXR_CACHE_TTL":   "30s",
		"FXR_RATE_LIMIT":  "2.5",
		"FXR_COST_METHOD": "FIFO",
		"FXR_RATES":       "usd=121,EUR=131.5",
	}))
	if err != nil {
		t.Fatalf("FromEnv() failed: %v", err)
	}
	if cfg.LedgerFile != "desk.jsonl" || cfg.DSN != "postgres://localhost/console" {
		t.Errorf("unexpected sources %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Second || cfg.RateLimit != 2.5 || cfg.CostMethod != reserve.FIFO {
		t.Errorf("unexpected settings %+v", cfg)
	}
	if rate, ok := cfg.Rates["USD"]; !ok || !rate.Equal(reserve.BDT(121)) {
		t.Errorf("Rates = %v, want USD=121", cfg.Rates)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"FXR_CACHE_TTL":   "soon",
		"FXR_RATE_LIMIT":  "-1",
		"FXR_COST_METHOD": "lifo",
		"FXR_RATES":       "USD",
	}))
	if err == nil {
		t.Fatalf("FromEnv() returned no error")
	}
	for _, key := range []string{"FXR_CACHE_TTL", "FXR_RATE_LIMIT", "FXR_COST_METHOD", "FXR_RATES"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
	if cfg.CacheTTL != time.Minute || cfg.RateLimit != 0 || cfg.CostMethod != reserve.AverageCost {
		t.Errorf("invalid values did not fall back to defaults: %+v", cfg)
	}
}
