package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	require.Equal(t, "2024.1", p.Version)
	require.Len(t, p.FeeBands, 8)
	require.Nil(t, p.FeeBands[len(p.FeeBands)-1].Max)
	require.Equal(t, 100, p.Bidding.MaxBidsPerUser)
	require.Equal(t, 7*24*time.Hour, p.Escrow.AutoConfirmWindow)
	require.Equal(t, 24*time.Hour, p.Escrow.PaymentDeadline)
	require.Equal(t, 6, p.Penalties.WindowMonths)
	require.Equal(t,
		[]string{"warning", "suspension_7_days", "suspension_30_days", "permanent_ban"},
		p.Penalties.Escalation["bid_cancellation"])
	require.True(t, p.Penalties.Tiers["permanent_ban"].Restricts)
	require.Zero(t, p.Penalties.Tiers["permanent_ban"].Duration)
}

func TestParsePolicy_Invalid(t *testing.T) {
	base := `
version: "test"
fee_bands:
%s
increment_bands:
  - { min: 0, increment: 100 }
bidding: { max_bids_per_user: 10 }
escrow: { auto_confirm_window: 24h, payment_deadline: 24h, shipping_sla: 24h }
penalties:
  window_months: 6
  tiers:
    warning: { duration: 0s }
  escalation:
    bid_cancellation: [%s]
`
	tests := []struct {
		name  string
		bands string
		tier  string
	}{
		{name: "gap_between_bands", bands: "  - { min: 0, max: 100, rate: \"0.1\" }\n  - { min: 200, rate: \"0.05\" }", tier: "warning"},
		{name: "overlap", bands: "  - { min: 0, max: 100, rate: \"0.1\" }\n  - { min: 50, rate: \"0.05\" }", tier: "warning"},
		{name: "not_starting_at_zero", bands: "  - { min: 10, rate: \"0.1\" }", tier: "warning"},
		{name: "bounded_last_band", bands: "  - { min: 0, max: 100, rate: \"0.1\" }", tier: "warning"},
		{name: "rate_increases", bands: "  - { min: 0, max: 100, rate: \"0.05\" }\n  - { min: 100, rate: \"0.1\" }", tier: "warning"},
		{name: "non_numeric_rate", bands: "  - { min: 0, rate: \"abc\" }", tier: "warning"},
		{name: "unknown_tier", bands: "  - { min: 0, rate: \"0.1\" }", tier: "flogging"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := []byte(sprintf(base, tc.bands, tc.tier))
			_, err := ParsePolicy(doc)
			require.Error(t, err)
		})
	}
}

func TestLoadPolicy_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, defaultPolicy, 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPolicy(), p)

	_, err = LoadPolicy(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
