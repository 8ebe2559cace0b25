package authkit

import (
	"time"

	"github.com/cliptube/authkit/internal/audit"
	"github.com/cliptube/authkit/password"
	"github.com/cliptube/authkit/store"
	"github.com/cliptube/authkit/token"
)

// Engine is the credential and session engine. Construct one through
// [Builder.Build]; the zero value is not usable. All methods are safe for
// concurrent use.
type Engine struct {
	config  Config
	store   store.Store
	tokens  *token.Manager
	hasher  *password.Hasher
	metrics *Metrics
	audit   *audit.Dispatcher
}

// Close flushes the audit dispatcher. The engine must not be used after
// Close returns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}
