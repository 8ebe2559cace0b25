// Package middleware exposes HTTP adapters for the authkit engine: the
// auth [Guard] and the session cookie helpers.
//
// The guard reads the access token from the Authorization header or the
// accessToken cookie, calls Engine.Authenticate, and injects the resolved
// [authkit.Identity] into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Touch the credential store (Engine handles I/O).
//   - Make decisions beyond pass/reject from Engine.Authenticate.
package middleware
