package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means no account matches the given identifier.
	ErrNotFound = errors.New("account not found")
	// ErrConflict means the username or email is already taken.
	ErrConflict = errors.New("username or email already taken")
	// ErrUnavailable wraps backend connectivity failures.
	ErrUnavailable = errors.New("credential store unavailable")
)

// Account is the persisted credential record. RefreshToken holds the single
// refresh token currently considered valid for the account; the empty string
// means no active session. PasswordHash is opaque to this package and is
// never returned to clients by upstream layers.
type Account struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateInput carries the fields for a new account record. The caller
// supplies the ID and already-normalized username/email; timestamps are
// store-managed.
type CreateInput struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
}

// Store is the credential persistence contract. Implementations must make
// CompareAndSetRefreshToken linearizable with respect to concurrent calls
// for the same account.
type Store interface {
	// FindByID returns the account or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByUsernameOrEmail returns the account matching either identifier,
	// or ErrNotFound.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error)

	// Create persists a new record. Returns ErrConflict when the username or
	// email is already taken. All-or-nothing: no partial record survives a
	// failed create.
	Create(ctx context.Context, in CreateInput) (*Account, error)

	// CompareAndSetRefreshToken atomically replaces the stored refresh token
	// with next only if the current value equals expected. Returns whether
	// the swap happened. A false return with nil error is the reuse-detection
	// signal: the presented token has been superseded.
	CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error)

	// SetRefreshToken unconditionally stores value (login) or clears it when
	// value is empty (logout). Returns ErrNotFound for unknown accounts.
	SetRefreshToken(ctx context.Context, id, value string) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id, newHash string) error
}
