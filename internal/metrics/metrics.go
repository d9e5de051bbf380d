// Package metrics records per-run counters and optionally writes them
// as a textfile-collector snapshot for node_exporter style scraping.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

// Namespace for all metrics
const namespace = "logarchive_report"

// Collector aggregates the run metrics on a private registry.
type Collector struct {
	LinesRendered    prometheus.Counter
	EventsCounted    prometheus.Counter
	ParseFailures    prometheus.Counter
	UniqueSubsystems prometheus.Gauge
	ArchiveSizeKB    prometheus.Gauge
	SpanMinutes      prometheus.Gauge
	RunDuration      prometheus.Gauge

	registry *prometheus.Registry
}

// NewCollector creates a metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		LinesRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_rendered_total",
			Help:      "Total lines produced by the log rendering tool",
		}),
		EventsCounted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Timestamp-bearing log lines counted",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timestamp_parse_failures_total",
			Help:      "Leading timestamps that failed to parse",
		}),
		UniqueSubsystems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unique_subsystems",
			Help:      "Distinct subsystem labels in the archive",
		}),
		ArchiveSizeKB: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "archive_size_kilobytes",
			Help:      "On-disk size of the analyzed logarchive",
		}),
		SpanMinutes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "span_minutes",
			Help:      "Minutes between the first and last log record",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the analysis run",
		}),
		registry: registry,
	}
}

// Record captures the final run results.
func (c *Collector) Record(stats types.RunStats, r *types.Report, duration time.Duration) {
	c.LinesRendered.Add(float64(stats.LinesRendered))
	c.EventsCounted.Add(float64(stats.EventsCounted))
	c.ParseFailures.Add(float64(stats.ParseFailures))
	c.UniqueSubsystems.Set(float64(r.UniqueSubsystems))
	c.ArchiveSizeKB.Set(r.SizeKB)
	c.SpanMinutes.Set(r.TTLMinutes)
	c.RunDuration.Set(duration.Seconds())
}

// Gather exposes the collected metric families for inspection.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// WriteTextfile writes the registry in the node_exporter textfile
// collector format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics snapshot: %w", err)
	}
	return nil
}
