// Package internaldefs holds the shared metric name table used by the
// exporter packages. It is internal to metrics/export and carries no
// exporter dependencies of its own.
package internaldefs

import (
	"github.com/cliptube/authkit"
)

// CounterDef maps an engine counter to its exported name.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported name.
type HistogramDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: authkit.MetricRegisterSuccess, Name: "authkit_register_success_total", Help: "Successful account registrations."},
	{ID: authkit.MetricRegisterDuplicate, Name: "authkit_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: authkit.MetricLoginSuccess, Name: "authkit_login_success_total", Help: "Successful login attempts."},
	{ID: authkit.MetricLoginFailure, Name: "authkit_login_failure_total", Help: "Failed login attempts."},
	{ID: authkit.MetricRefreshSuccess, Name: "authkit_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: authkit.MetricRefreshFailure, Name: "authkit_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: authkit.MetricRefreshReuseDetected, Name: "authkit_refresh_reuse_detected_total", Help: "Detected refresh token reuses."},
	{ID: authkit.MetricLogout, Name: "authkit_logout_total", Help: "Logout operations."},
	{ID: authkit.MetricPasswordChangeSuccess, Name: "authkit_password_change_success_total", Help: "Successful password changes."},
	{ID: authkit.MetricPasswordChangeInvalidOld, Name: "authkit_password_change_invalid_old_total", Help: "Password change attempts with invalid old password."},
}

var HistogramDefs = []HistogramDef{
	{ID: authkit.MetricAuthenticateLatency, Name: "authkit_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, text form.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is the bound set in attribute-safe form.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a snapshot bucket slice into the fixed-width
// array exporters render from.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// the Prometheus exposition format requires.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
