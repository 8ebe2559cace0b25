package authkit

import (
	"testing"
	"time"

	"github.com/cliptube/authkit/store"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"missing access secret", func(c *Config) { c.Token.AccessSecret = nil }, false},
		{"missing refresh secret", func(c *Config) { c.Token.RefreshSecret = nil }, false},
		{"equal secrets", func(c *Config) { c.Token.RefreshSecret = c.Token.AccessSecret }, false},
		{"zero access ttl", func(c *Config) { c.Token.AccessTTL = 0 }, false},
		{"zero refresh ttl", func(c *Config) { c.Token.RefreshTTL = 0 }, false},
		{"access ttl above refresh ttl", func(c *Config) {
			c.Token.AccessTTL = time.Hour
			c.Token.RefreshTTL = time.Minute
		}, false},
		{"negative leeway", func(c *Config) { c.Token.Leeway = -time.Second }, false},
		{"huge leeway", func(c *Config) { c.Token.Leeway = time.Hour }, false},
		{"cost too low", func(c *Config) { c.Password.Cost = 2 }, false},
		{"cost too high", func(c *Config) { c.Password.Cost = 40 }, false},
		{"audit enabled without buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}, false},
		{"audit disabled without buffer", func(c *Config) {
			c.Audit.Enabled = false
			c.Audit.BufferSize = 0
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuilderRequiresStore(t *testing.T) {
	if _, err := New().WithConfig(testConfig()).Build(); err == nil {
		t.Fatal("expected error without a store")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Token.AccessSecret = nil

	if _, err := New().WithConfig(cfg).WithStore(store.NewMemory()).Build(); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithStore(store.NewMemory())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestDefaultConfigIsSaneOnceSecretsSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = []byte("a-secret")
	cfg.Token.RefreshSecret = []byte("r-secret")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with secrets must validate: %v", err)
	}
	if cfg.Token.AccessTTL >= cfg.Token.RefreshTTL {
		t.Fatal("access TTL should be far below refresh TTL")
	}
}
