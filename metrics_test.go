package authkit

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricAuthenticateLatency, time.Millisecond)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled snapshot must be empty: %+v", snap)
	}
}

func TestMetricsCountersConcurrent(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRefreshSuccess); got != goroutines*perGoroutine {
		t.Fatalf("expected %d, got %d", goroutines*perGoroutine, got)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	samples := []time.Duration{
		time.Millisecond,       // bucket 0
		8 * time.Millisecond,   // bucket 1
		40 * time.Millisecond,  // bucket 3
		900 * time.Millisecond, // bucket 7
	}
	for _, d := range samples {
		m.Observe(MetricAuthenticateLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricAuthenticateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}

	want := [histBucketCount]uint64{1, 1, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if buckets[i] != w {
			t.Fatalf("bucket %d: expected %d, got %d (%v)", i, w, buckets[i], buckets)
		}
	}
}

func TestMetricsObserveIgnoresNonLatencyIDs(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLoginSuccess, time.Millisecond)

	snap := m.Snapshot()
	for i := range snap.Histograms[MetricAuthenticateLatency] {
		if snap.Histograms[MetricAuthenticateLatency][i] != 0 {
			t.Fatal("non-latency observation must not land in the histogram")
		}
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricAuthenticateLatency, time.Second)

	if m.Enabled() || m.LatencyEnabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("nil metrics must report zero")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatal("nil snapshot must be empty")
	}
}
