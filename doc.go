// Package authkit implements credential verification and the session-token
// lifecycle for a multi-user content platform: password hashing, JWT
// access/refresh issuance, refresh-token rotation with reuse detection, and
// session revocation.
//
// Each account has at most one live session. The refresh token stored on the
// credential record is the single source of truth: rotation swaps it with an
// atomic compare-and-set in the store, so a refresh token that has been used
// once, by the legitimate client or by a thief, is dead for everyone else.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Identity, TokenPair, MetricsSnapshot). Token encoding
// lives in token/, hashing in password/, persistence in store/, HTTP
// adapters in middleware/; audit dispatch lives under internal/ and is
// re-exported as type aliases only.
//
// # What this package must NOT do
//
//   - Expose store clients or token secrets in its public API.
//   - Return password hashes or stored refresh tokens to callers.
//   - Perform I/O during construction (Build is allocation-only).
package authkit
