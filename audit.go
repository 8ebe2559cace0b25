package authkit

import (
	"io"

	"github.com/cliptube/authkit/internal/audit"
)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher. Implementations must be safe for concurrent use.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes one JSON object per line to
// an [io.Writer].
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
