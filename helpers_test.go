package authkit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cliptube/authkit/store"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = []byte("access-secret-for-tests")
	cfg.Token.RefreshSecret = []byte("refresh-secret-for-tests")
	// Low cost keeps the suite fast; production stays at 10+.
	cfg.Password.Cost = bcrypt.MinCost
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *ChannelSink) {
	t.Helper()

	sink := NewChannelSink(64)
	engine, err := New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, sink
}

func registerAlice(t *testing.T, engine *Engine) *Identity {
	t.Helper()

	identity, err := engine.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Liddell",
		Password: "hunter2-hunter2",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return identity
}

func loginAlice(t *testing.T, engine *Engine) (*Identity, *TokenPair) {
	t.Helper()

	identity, pair, err := engine.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "hunter2-hunter2",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return identity, pair
}

// drainAudit collects events until the sink goes quiet.
func drainAudit(sink *ChannelSink) []AuditEvent {
	var events []AuditEvent
	for {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
		case <-time.After(100 * time.Millisecond):
			return events
		}
	}
}
