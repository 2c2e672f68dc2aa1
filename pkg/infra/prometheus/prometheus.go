package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000, 60000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaguard_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metaguard_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)

	PipelineRunsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaguard_pipeline_runs_total",
			Help: "Pipeline runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	PipelineRunLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metaguard_pipeline_run_latency_ms",
			Help:    "End to end pipeline latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"mode"},
	)

	PipelineStageLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metaguard_pipeline_stage_latency_ms",
			Help:    "Latency of each pipeline stage in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"mode", "stage"},
	)

	OverallRiskTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaguard_overall_risk_total",
			Help: "Completed runs by overall risk level",
		},
		[]string{"mode", "risk"},
	)

	StrippedTagsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaguard_stripped_tags_total",
			Help: "Metadata tags selected for removal",
		},
		[]string{"mode"},
	)

	GuestQuotaRejections = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaguard_guest_quota_rejections_total",
			Help: "Guest uploads rejected by the quota",
		},
		[]string{"reason"},
	)
)

type MetricsConfig struct {
	EnablePipeline bool // Pipeline run, stage and risk metrics
	EnablePerRoute bool // Per-route request metrics (higher cardinality)
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnablePipeline: true,
		EnablePerRoute: false,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Gatherer exposes the private registry to the metrics handler.
func Gatherer() prometheus.Gatherer {
	return registry
}
