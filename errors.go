package authkit

import "errors"

// Engine errors, grouped by kind. Callers match with errors.Is; store and
// signing failures are wrapped so the sentinel survives the wrapping.
var (
	// Validation.

	// ErrValidation is returned when a required field is missing or empty.
	ErrValidation = errors.New("missing or invalid required fields")

	// Conflict.

	// ErrAccountExists is returned when the username or email is taken.
	ErrAccountExists = errors.New("username or email already registered")

	// Auth.

	// ErrInvalidCredentials is returned for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when an access token fails verification or
	// no longer resolves to an account.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRefreshInvalid is the single generic error for every refresh
	// rejection: expired, bad signature, unknown account, or a superseded
	// token. Audit events and metrics retain the distinction; clients must
	// not be able to tell which condition failed.
	ErrRefreshInvalid = errors.New("invalid refresh token")

	// Not found.

	// ErrAccountNotFound is returned when no account matches the identifier.
	ErrAccountNotFound = errors.New("account not found")

	// Internal.

	// ErrInternal wraps hashing, signing, and store-availability failures.
	ErrInternal = errors.New("internal error")
	// ErrEngineNotReady is returned when the engine is used before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
