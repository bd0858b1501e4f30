package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	registry = prometheus.NewRegistry()

	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ptvoice",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Voice decode and encode operations by result kind.",
		},
		[]string{"op", "result"},
	)
	codecDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ptvoice",
			Subsystem: "codec",
			Name:      "operation_duration_seconds",
			Help:      "Voice decode and encode duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"op"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ptvoice",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes read by decode and written by encode.",
		},
		[]string{"op"},
	)
	voiceUnits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ptvoice",
			Subsystem: "voice",
			Name:      "units",
			Help:      "Units per successfully processed voice.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
		},
	)
	lintWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ptvoice",
			Subsystem: "lint",
			Name:      "warnings_total",
			Help:      "Lint warnings by code.",
		},
		[]string{"code"},
	)
)

// Codec operation labels.
const (
	OpDecode = "decode"
	OpEncode = "encode"
)

// Registry returns the registry the ptvoice collectors are registered on.
func Registry() *prometheus.Registry {
	RegisterMetrics()
	return registry
}

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(codecOps, codecDuration, codecBytes, voiceUnits, lintWarnings)
	})
}

// RecordCodec records one decode or encode. result is an error kind label;
// bytes and units are only counted for successful operations.
func RecordCodec(op, result string, bytes int64, units int, duration time.Duration) {
	RegisterMetrics()
	codecOps.WithLabelValues(op, result).Inc()
	codecDuration.WithLabelValues(op).Observe(duration.Seconds())
	if result != "ok" {
		return
	}
	if bytes > 0 {
		codecBytes.WithLabelValues(op).Add(float64(bytes))
	}
	voiceUnits.Observe(float64(units))
}

func RecordLintWarning(code string) {
	RegisterMetrics()
	lintWarnings.WithLabelValues(code).Inc()
}
