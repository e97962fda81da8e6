// Package config loads the fxr configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/reserve"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the fxr commands.
// Command line flags default to these values.
type Config struct {
	// Source of the records; the first non empty wins, in this order.
	LedgerFile string // FXR_LEDGER_FILE
	DSN        string // FXR_DSN
	RemoteURL  string // FXR_REMOTE_URL
	RemotePath string // FXR_REMOTE_PATH

	Addr       string        // FXR_ADDR
	LogLevel   string        // FXR_LOG_LEVEL
	CacheTTL   time.Duration // FXR_CACHE_TTL
	RateLimit  float64       // FXR_RATE_LIMIT, API requests per second, 0 for none
	CostMethod reserve.CostBasisMethod
	Rates      map[string]reserve.Money // FXR_RATES, "USD=121,EUR=131"
}

// Load reads an optional .env file, then the environment.
//
// Invalid values are reported in the returned error, joined, and replaced by
// their default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: error loading .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the lookup function getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []string
	cfg := &Config{
		LedgerFile: get("FXR_LEDGER_FILE", ""),
		DSN:        get("FXR_DSN", ""),
		RemoteURL:  get("FXR_REMOTE_URL", ""),
		RemotePath: get("FXR_REMOTE_PATH", "$.data"),
		Addr:       get("FXR_ADDR", ":8080"),
		LogLevel:   get("FXR_LOG_LEVEL", "info"),
		CacheTTL:   time.Minute,
		Rates:      map[string]reserve.Money{},
	}

	if v := get("FXR_CACHE_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("FXR_CACHE_TTL: %v", err))
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if v := get("FXR_RATE_LIMIT", ""); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			errs = append(errs, fmt.Sprintf("FXR_RATE_LIMIT: invalid value %q", v))
		} else {
			cfg.RateLimit = limit
		}
	}

	method, err := reserve.ParseCostBasisMethod(get("FXR_COST_METHOD", ""))
	if err != nil {
		errs = append(errs, fmt.Sprintf("FXR_COST_METHOD: %v", err))
	}
	cfg.CostMethod = method

	if v := get("FXR_RATES", ""); v != "" {
		rates, err := reserve.ParseRates(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("FXR_RATES: %v", err))
		} else {
			cfg.Rates = rates
		}
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}
