package authkit

import (
	"errors"

	"github.com/cliptube/authkit/internal/audit"
	"github.com/cliptube/authkit/password"
	"github.com/cliptube/authkit/store"
	"github.com/cliptube/authkit/token"
)

// Builder assembles an [Engine]. A Builder is single-use; Build fails on a
// second call.
type Builder struct {
	config    Config
	store     store.Store
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the account store backing the engine. Required.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithAuditSink sets the destination for audit events. Ignored when
// Audit.Enabled is false.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.store == nil {
		return nil, errors.New("account store required")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Cost: cfg.Password.Cost,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  cfg.Token.AccessSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshSecret: cfg.Token.RefreshSecret,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		store:   b.store,
		tokens:  tokens,
		hasher:  hasher,
		metrics: NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true

	return engine, nil
}
