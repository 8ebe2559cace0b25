package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cliptube/authkit/store"
	"github.com/cliptube/authkit/token"
)

// Refresh rotates a session: it verifies the presented refresh token,
// issues a new access/refresh pair, and atomically swaps the stored refresh
// token from the presented value to the new one. When the presented token
// is not the stored one the swap loses, the freshly issued pair is
// discarded, and the caller gets the same generic error as for any other
// bad refresh token. Under concurrent calls with the same token exactly one
// wins.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, "", ErrRefreshInvalid, func() map[string]string {
			return map[string]string{"reason": refreshRejectReason(err)}
		})
		return nil, ErrRefreshInvalid
	}
	accountID := claims.Subject

	acct, err := e.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshInvalid, false, accountID, ErrRefreshInvalid, func() map[string]string {
				return map[string]string{"reason": "unknown_account"}
			})
			return nil, ErrRefreshInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	access, next, err := e.tokens.IssuePair(acct.ID, acct.Username, acct.Email, acct.FullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	swapped, err := e.store.CompareAndSetRefreshToken(ctx, acct.ID, refreshToken, next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !swapped {
		// The presented token was superseded. Either an earlier rotation
		// already consumed it, or it is being replayed after theft. The
		// issued pair above is dropped on the floor.
		e.metricInc(MetricRefreshReuseDetected)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshReuseDetected, false, acct.ID, ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, acct.ID, nil, nil)

	return &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// Logout clears the stored refresh token, ending the account's session.
// Logging out an account with no active session succeeds; the outcome is
// the same.
func (e *Engine) Logout(ctx context.Context, accountID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if accountID == "" {
		return ErrValidation
	}

	if err := e.store.SetRefreshToken(ctx, accountID, ""); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, accountID, nil, nil)

	return nil
}

// Authenticate verifies an access token and resolves it to a live account.
// An account deleted after the token was issued is rejected even though the
// signature still verifies.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metricObserve(MetricAuthenticateLatency, time.Since(start))
	}()

	claims, err := e.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	acct, err := e.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return identityFromAccount(acct), nil
}

func refreshRejectReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
