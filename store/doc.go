// Package store defines the credential-record contract consumed by the
// engine and provides Redis, Postgres, and in-memory implementations.
//
// # The refresh-token invariant
//
// Each account holds at most one live refresh token. The only way to replace
// a live token with another is [Store.CompareAndSetRefreshToken], an atomic
// conditional write: the new value is stored only if the current value still
// equals the expected one. Two racing rotations presenting the same token
// therefore resolve to exactly one winner; the loser observes a changed
// value and fails. The Redis implementation expresses the CAS as a Lua
// script, the Postgres implementation as a conditional UPDATE.
//
// # Architecture boundaries
//
// This package owns persistence and uniqueness enforcement. It does not hash
// passwords, interpret tokens, or normalize identifiers; callers supply
// values already folded to their canonical form.
//
// # What this package must NOT do
//
//   - Import any other authkit package.
//   - Log password hashes or refresh tokens.
//   - Return partially created records (Create is all-or-nothing).
package store
