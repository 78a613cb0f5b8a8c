// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAllowedOrigins are the sites allowed to call the API from a browser.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"https://malaviyavidyakendram.netlify.app",
	"https://malaviyavidyakendramurvari.netlify.app",
	"https://uvarimkv.org",
	"https://www.uvarimkv.org",
}

// Config holds everything the api and worker binaries need.
type Config struct {
	DonationsTable     string
	OutcomeQueueURL    string
	MetricsNamespace   string
	RazorpayKeyID      string
	RazorpayKeySecret  string
	VerifySignatures   bool
	AllowedOrigins     []string
	LedgerPollInterval time.Duration
	LedgerPageSize     int
	RunLocal           bool
	ListenAddr         string
	LogLevel           string
}

// Load reads the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		DonationsTable:     getenv("DONATIONS_TABLE", "donations"),
		OutcomeQueueURL:    os.Getenv("OUTCOME_QUEUE_URL"),
		MetricsNamespace:   getenv("METRICS_NAMESPACE", "DonationCheckout"),
		RazorpayKeyID:      os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:  os.Getenv("RAZORPAY_KEY_SECRET"),
		AllowedOrigins:     DefaultAllowedOrigins,
		LedgerPollInterval: 5 * time.Second,
		LedgerPageSize:     10,
		RunLocal:           os.Getenv("RUN_LOCAL") == "true",
		ListenAddr:         getenv("LISTEN_ADDR", ":8080"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("VERIFY_PAYMENT_SIGNATURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("VERIFY_PAYMENT_SIGNATURE: %w", err)
		}
		cfg.VerifySignatures = b
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LEDGER_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("LEDGER_POLL_INTERVAL: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("LEDGER_POLL_INTERVAL must be positive, got %s", v)
		}
		cfg.LedgerPollInterval = d
	}
	if cfg.VerifySignatures && cfg.RazorpayKeySecret == "" {
		return cfg, fmt.Errorf("VERIFY_PAYMENT_SIGNATURE needs RAZORPAY_KEY_SECRET")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
