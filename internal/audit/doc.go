// Package audit provides the audit event model and an asynchronous
// dispatcher that forwards events to a caller-supplied sink.
//
// # Delivery semantics
//
// Emit never blocks the request path when DropIfFull is set: events beyond
// the buffer are dropped and counted. With DropIfFull unset, Emit blocks
// until the event is buffered or the context is done. Close drains whatever
// is already buffered before returning.
//
// # What this package must NOT do
//
//   - Import authkit or any sibling package.
//   - Include password hashes or token values in event payloads.
package audit
