package token

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failure classes. Callers match with errors.Is.
var (
	// ErrMalformed means the compact structure could not be parsed.
	ErrMalformed = errors.New("malformed token")
	// ErrSignature means the signature does not match (wrong secret or tampering).
	ErrSignature = errors.New("bad token signature")
	// ErrExpired means the token's exp is at or before the current time.
	ErrExpired = errors.New("token expired")
)

// Config holds the two secret/TTL pairs. All four fields are required;
// NewManager fails on any missing or invalid value so a misconfigured
// deployment dies at startup rather than per request.
type Config struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Manager issues and verifies signed tokens. Immutable after construction,
// safe for concurrent use.
type Manager struct {
	config Config
}

// AccessClaims is the payload of a short-lived access token. Subject carries
// the account ID.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token, minimized to
// the registered claim set.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access token secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh token secret is required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("access token TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, errors.New("refresh token TTL must be > 0")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.config.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.config.RefreshTTL }

// SignAccess issues an access token for the given account identity.
func (m *Manager) SignAccess(accountID, username, email, fullName string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Username: username,
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			Issuer:    m.config.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.AccessSecret)
}

// SignRefresh issues a refresh token carrying only the account ID. The jti
// claim makes every token unique even when two are signed within the same
// second, so rotation always changes the stored value.
func (m *Manager) SignRefresh(accountID string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
			Issuer:    m.config.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.RefreshSecret)
}

// IssuePair signs the access/refresh pair for one account. Storing the
// refresh token is the caller's responsibility, which keeps issuance
// testable without a credential store.
func (m *Manager) IssuePair(accountID, username, email, fullName string) (access, refresh string, err error) {
	access, err = m.SignAccess(accountID, username, email, fullName)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.SignRefresh(accountID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseAccess verifies an access token and returns its claims. The signature
// is checked before any claim is trusted; failures are classified as
// [ErrMalformed], [ErrSignature], or [ErrExpired].
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return classify(err)
	}
	if !parsed.Valid {
		return ErrMalformed
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
