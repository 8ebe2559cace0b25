// Package password implements password hashing and verification with bcrypt.
//
// # Output format
//
// Digests are standard bcrypt strings ($2a$/$2b$ prefix) with the salt and
// cost embedded, so [Hasher.Verify] needs no external parameters. Hashing the
// same plaintext twice yields two distinct digests (fresh salt per call),
// and both verify.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (required
// fields, change semantics) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive digests.
//   - Import any other authkit package.
//   - Log plaintext passwords at runtime.
package password
