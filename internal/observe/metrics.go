// Package observe provides application-wide observability primitives for
// soundrig: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all soundrig metrics.
const meterName = "github.com/silverlode-studios/soundrig"

// Metrics holds all OpenTelemetry metric instruments for the engine. All
// fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// BankResolveDuration tracks event-name-to-audio-id resolution latency.
	BankResolveDuration metric.Float64Histogram

	// TickDuration tracks one engine Tick call's wall-clock duration.
	TickDuration metric.Float64Histogram

	// ManifestLoadDuration tracks manifest discovery-and-ingest latency.
	ManifestLoadDuration metric.Float64Histogram

	// --- Counters ---

	// CommandsProcessed counts Commands applied by the engine. Use with
	// attribute: attribute.String("kind", ...)
	CommandsProcessed metric.Int64Counter

	// CommandsDropped counts Commands dropped because the queue was full.
	// Use with attribute: attribute.String("kind", ...)
	CommandsDropped metric.Int64Counter

	// LifecycleDropped counts Lifecycle messages dropped because the queue
	// was full. Use with attribute: attribute.String("kind", ...)
	LifecycleDropped metric.Int64Counter

	// ReclaimSweeps counts completed Reclaim passes.
	ReclaimSweeps metric.Int64Counter

	// HandlesReclaimed counts playback handles dropped by a Reclaim sweep.
	HandlesReclaimed metric.Int64Counter

	// --- Error counters ---

	// PlaybackErrors counts failures starting playback. Use with attribute:
	//   attribute.String("reason", ...)
	PlaybackErrors metric.Int64Counter

	// ResolveFailures counts bank resolution failures that fell back to the
	// vanilla host path.
	ResolveFailures metric.Int64Counter

	// --- Gauges ---

	// ActiveHandles tracks the number of currently tracked playback handles.
	ActiveHandles metric.Int64UpDownCounter

	// ActiveEmitters tracks the number of entities with at least one
	// registered scene emitter.
	ActiveEmitters metric.Int64UpDownCounter

	// CommandQueueDepth tracks the number of queued Commands awaiting drain.
	CommandQueueDepth metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time, used by the
	// introspection server. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for engine-tick and bank-resolve latencies, which run well under a
// second under normal load.
var latencyBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.BankResolveDuration, err = m.Float64Histogram("soundrig.bank.resolve.duration",
		metric.WithDescription("Latency of event name to audio id resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TickDuration, err = m.Float64Histogram("soundrig.engine.tick.duration",
		metric.WithDescription("Wall-clock duration of one engine tick."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ManifestLoadDuration, err = m.Float64Histogram("soundrig.manifest.load.duration",
		metric.WithDescription("Latency of manifest discovery and ingest."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.CommandsProcessed, err = m.Int64Counter("soundrig.commands.processed",
		metric.WithDescription("Total Commands applied by the engine, by kind."),
	); err != nil {
		return nil, err
	}
	if met.CommandsDropped, err = m.Int64Counter("soundrig.commands.dropped",
		metric.WithDescription("Total Commands dropped because the command queue was full."),
	); err != nil {
		return nil, err
	}
	if met.LifecycleDropped, err = m.Int64Counter("soundrig.lifecycle.dropped",
		metric.WithDescription("Total Lifecycle messages dropped because the lifecycle queue was full."),
	); err != nil {
		return nil, err
	}
	if met.ReclaimSweeps, err = m.Int64Counter("soundrig.reclaim.sweeps",
		metric.WithDescription("Total completed Reclaim passes over the scene and handle store."),
	); err != nil {
		return nil, err
	}
	if met.HandlesReclaimed, err = m.Int64Counter("soundrig.handles.reclaimed",
		metric.WithDescription("Total playback handles dropped by a Reclaim sweep."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.PlaybackErrors, err = m.Int64Counter("soundrig.playback.errors",
		metric.WithDescription("Total failures starting playback, by reason."),
	); err != nil {
		return nil, err
	}
	if met.ResolveFailures, err = m.Int64Counter("soundrig.resolve.failures",
		metric.WithDescription("Total bank resolution failures that fell back to the vanilla host path."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveHandles, err = m.Int64UpDownCounter("soundrig.active_handles",
		metric.WithDescription("Number of currently tracked playback handles."),
	); err != nil {
		return nil, err
	}
	if met.ActiveEmitters, err = m.Int64UpDownCounter("soundrig.active_emitters",
		metric.WithDescription("Number of entities with at least one registered scene emitter."),
	); err != nil {
		return nil, err
	}
	if met.CommandQueueDepth, err = m.Int64UpDownCounter("soundrig.command_queue.depth",
		metric.WithDescription("Number of queued Commands awaiting drain."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("soundrig.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCommandProcessed is a convenience method that records a processed
// Command counter increment with its kind.
func (m *Metrics) RecordCommandProcessed(ctx context.Context, kind string) {
	m.CommandsProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCommandDropped is a convenience method that records a dropped
// Command counter increment with its kind.
func (m *Metrics) RecordCommandDropped(ctx context.Context, kind string) {
	m.CommandsDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordLifecycleDropped is a convenience method that records a dropped
// Lifecycle message counter increment with its kind.
func (m *Metrics) RecordLifecycleDropped(ctx context.Context, kind string) {
	m.LifecycleDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordPlaybackError is a convenience method that records a playback error
// counter increment with its reason.
func (m *Metrics) RecordPlaybackError(ctx context.Context, reason string) {
	m.PlaybackErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordResolveFailure is a convenience method that records a bank resolve
// failure counter increment.
func (m *Metrics) RecordResolveFailure(ctx context.Context, eventName string) {
	m.ResolveFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("event", eventName)))
}
