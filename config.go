package authkit

import (
	"bytes"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config is the full engine configuration. Zero values are rejected by
// Validate for the fields that matter; use [DefaultConfig] as a base and set
// the two token secrets.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// TokenConfig holds the two independent secret/TTL pairs. All four are
// required at construction; a missing secret is a fatal Build error, never a
// per-request condition.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig holds the bcrypt work factor.
type PasswordConfig struct {
	// Cost is the bcrypt cost parameter (10–12 recommended).
	Cost int
	// UpgradeOnLogin re-hashes with the configured cost after a successful
	// login when the stored digest was produced with a lower one.
	UpgradeOnLogin bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events under backpressure instead of blocking the
	// request path; drops are counted and exported.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the recommended configuration. The token secrets
// are left empty; Build fails until the caller supplies them.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "authkit",
		},
		Password: PasswordConfig{
			Cost:           10,
			UpgradeOnLogin: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks the configuration for use by Build.
func (c Config) Validate() error {
	if len(c.Token.AccessSecret) == 0 {
		return errors.New("Token.AccessSecret is required")
	}
	if len(c.Token.RefreshSecret) == 0 {
		return errors.New("Token.RefreshSecret is required")
	}
	if bytes.Equal(c.Token.AccessSecret, c.Token.RefreshSecret) {
		return errors.New("Token.AccessSecret and Token.RefreshSecret must differ")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token.AccessTTL must be > 0")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token.RefreshTTL must be > 0")
	}
	if c.Token.AccessTTL > c.Token.RefreshTTL {
		return errors.New("Token.AccessTTL must not exceed Token.RefreshTTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token.Leeway must be in [0, 2m]")
	}
	if c.Password.Cost < bcrypt.MinCost || c.Password.Cost > bcrypt.MaxCost {
		return errors.New("Password.Cost out of bcrypt range")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be > 0 when audit is enabled")
	}
	return nil
}
