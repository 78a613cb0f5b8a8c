package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DONATIONS_TABLE", "OUTCOME_QUEUE_URL", "METRICS_NAMESPACE", "RAZORPAY_KEY_ID",
		"RAZORPAY_KEY_SECRET", "VERIFY_PAYMENT_SIGNATURE", "ALLOWED_ORIGINS",
		"LEDGER_POLL_INTERVAL", "RUN_LOCAL", "LISTEN_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "donations", cfg.DonationsTable)
	require.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	require.Equal(t, 5*time.Second, cfg.LedgerPollInterval)
	require.Equal(t, 10, cfg.LedgerPageSize)
	require.False(t, cfg.RunLocal)
	require.Empty(t, cfg.OutcomeQueueURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LEDGER_POLL_INTERVAL", "750ms")
	t.Setenv("VERIFY_PAYMENT_SIGNATURE", "true")
	t.Setenv("RAZORPAY_KEY_SECRET", "s3cret")
	t.Setenv("RUN_LOCAL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, 750*time.Millisecond, cfg.LedgerPollInterval)
	require.True(t, cfg.VerifySignatures)
	require.True(t, cfg.RunLocal)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_POLL_INTERVAL", "soon")
	_, err := Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("VERIFY_PAYMENT_SIGNATURE", "true")
	_, err = Load()
	require.Error(t, err)
}
