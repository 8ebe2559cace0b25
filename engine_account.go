package authkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cliptube/authkit/store"
)

// Register creates a new account. Username and email are normalized
// (trimmed, lowercased) before the uniqueness check, so "Alice" and "alice"
// collide. The password is hashed before anything touches the store.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	username := normalizeIdentifier(req.Username)
	email := normalizeIdentifier(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	if username == "" || email == "" || fullName == "" || req.Password == "" {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrValidation, nil)
		return nil, ErrValidation
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrInternal, nil)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	acct, err := e.store.Create(ctx, store.CreateInput{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", ErrAccountExists, func() map[string]string {
				return map[string]string{"username": username}
			})
			return nil, ErrAccountExists
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrInternal, nil)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, acct.ID, nil, nil)

	return identityFromAccount(acct), nil
}

// Login verifies credentials and starts a session. The caller may supply
// username, email, or both; any match wins. On success the refresh token is
// persisted as the account's only valid session token, displacing whatever
// was stored before.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*Identity, *TokenPair, error) {
	if e == nil {
		return nil, nil, ErrEngineNotReady
	}

	username := normalizeIdentifier(req.Username)
	email := normalizeIdentifier(req.Email)

	if req.Password == "" || (username == "" && email == "") {
		e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrValidation, nil)
		return nil, nil, ErrValidation
	}

	acct, err := e.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrAccountNotFound, nil)
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	ok, err := e.hasher.Verify(req.Password, acct.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, acct.ID, ErrInvalidCredentials, nil)
		return nil, nil, ErrInvalidCredentials
	}

	e.maybeUpgradeHash(ctx, acct, req.Password)

	access, refresh, err := e.tokens.IssuePair(acct.ID, acct.Username, acct.Email, acct.FullName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := e.store.SetRefreshToken(ctx, acct.ID, refresh); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, acct.ID, nil, nil)

	return identityFromAccount(acct), &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ChangePassword verifies the old password, stores a hash of the new one,
// and revokes the active session so existing refresh tokens die with the
// old credential.
func (e *Engine) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if accountID == "" || oldPassword == "" || newPassword == "" {
		return ErrValidation
	}

	acct, err := e.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	ok, err := e.hasher.Verify(oldPassword, acct.PasswordHash)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeInvalidOld, false, acct.ID, ErrInvalidCredentials, nil)
		return ErrInvalidCredentials
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := e.store.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	// The session opened with the old password is no longer trusted.
	if err := e.store.SetRefreshToken(ctx, acct.ID, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, acct.ID, nil, nil)

	return nil
}

// CurrentUser returns the identity for an account ID, typically taken from
// a verified access token.
func (e *Engine) CurrentUser(ctx context.Context, accountID string) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if accountID == "" {
		return nil, ErrValidation
	}

	acct, err := e.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return identityFromAccount(acct), nil
}

// maybeUpgradeHash transparently re-hashes at the configured cost after a
// successful verification. Failure here never fails the login.
func (e *Engine) maybeUpgradeHash(ctx context.Context, acct *store.Account, plaintext string) {
	if !e.config.Password.UpgradeOnLogin {
		return
	}
	needs, err := e.hasher.NeedsRehash(acct.PasswordHash)
	if err != nil || !needs {
		return
	}
	hash, err := e.hasher.Hash(plaintext)
	if err != nil {
		return
	}
	_ = e.store.UpdatePasswordHash(ctx, acct.ID, hash)
}

func identityFromAccount(acct *store.Account) *Identity {
	return &Identity{
		AccountID: acct.ID,
		Username:  acct.Username,
		Email:     acct.Email,
		FullName:  acct.FullName,
		CreatedAt: acct.CreatedAt,
	}
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
