package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cliptube/authkit"
	"github.com/cliptube/authkit/store"
)

func newGuardedServer(t *testing.T) (*authkit.Engine, *authkit.TokenPair, http.Handler) {
	t.Helper()

	cfg := authkit.DefaultConfig()
	cfg.Token.AccessSecret = []byte("access-secret-for-tests")
	cfg.Token.RefreshSecret = []byte("refresh-secret-for-tests")
	cfg.Password.Cost = bcrypt.MinCost
	cfg.Audit.Enabled = false

	engine, err := authkit.New().WithConfig(cfg).WithStore(store.NewMemory()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Register(context.Background(), authkit.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Liddell",
		Password: "hunter2-hunter2",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, pair, err := engine.Login(context.Background(), authkit.LoginRequest{
		Username: "alice",
		Password: "hunter2-hunter2",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from guarded request context")
		}
		_, _ = w.Write([]byte(identity.Username))
	}))

	return engine, pair, handler
}

func TestGuardBearerHeader(t *testing.T) {
	_, pair, handler := newGuardedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGuardCookieFallback(t *testing.T) {
	_, pair, handler := newGuardedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuardRejections(t *testing.T) {
	_, pair, handler := newGuardedServer(t)

	cases := map[string]func(*http.Request){
		"no credentials": func(r *http.Request) {},
		"empty bearer":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
		"not bearer":     func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"garbage token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
		"refresh as access": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		},
	}
	for name, prepare := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		prepare(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestGuardNilEngine(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookies(rec, &authkit.TokenPair{
		AccessToken:  "acc",
		RefreshToken: "ref",
	}, 15*time.Minute, 7*24*time.Hour)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly || !c.Secure {
			t.Fatalf("cookie %s must be HttpOnly and Secure", c.Name)
		}
		if c.MaxAge <= 0 {
			t.Fatalf("cookie %s must have a positive MaxAge", c.Name)
		}
	}
	if cookies[0].Name != AccessTokenCookie || cookies[1].Name != RefreshTokenCookie {
		t.Fatalf("unexpected cookie names %s, %s", cookies[0].Name, cookies[1].Name)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookies(rec)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			t.Fatalf("cleared cookie %s must have negative MaxAge", c.Name)
		}
	}
}
