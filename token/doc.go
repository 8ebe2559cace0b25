// Package token signs and verifies the access/refresh JWT pair with two
// independent HMAC secrets and strict validation semantics.
//
// # Claim sets
//
// Access tokens carry the account identity needed by handlers
// (sub, username, email, fullName, iat, exp). Refresh tokens are minimized
// to (jti, sub, iat, exp) to reduce exposure of a long-lived credential.
//
// # Secret separation
//
// Access and refresh tokens are signed with different secrets. A refresh
// secret never validates an access token and vice versa; [NewManager]
// rejects configurations where the two secrets are equal.
//
// # Architecture boundaries
//
// This package owns token encoding only. It does not persist anything and
// does not decide whether a verified refresh token is still the live one;
// that comparison belongs to the Engine and the credential store.
package token
