package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_transcoder_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Transcode metrics
var (
	TranscodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_requests_total",
			Help: "Total number of requests handled by the transcoder by asset kind and outcome",
		},
		[]string{"kind", "outcome"}, // "transformed", "not_modified", "error"
	)

	TranscodePassThroughTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_pass_through_total",
			Help: "Total number of requests handed to the next handler by reason",
		},
		[]string{"reason"}, // "method", "extension", "index_missing"
	)

	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_transcoder_transform_duration_seconds",
			Help:    "Time spent in the transformer or override by asset kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind", "source"}, // source: "default" or "override"
	)

	TransformOutputBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_transcoder_transform_output_bytes",
			Help:    "Size of transformed output in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"kind"},
	)
)

// Transform worker metrics
var (
	TransformWorkersCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_transform_workers_capacity",
			Help: "Maximum number of transforms allowed to run concurrently",
		},
	)

	TransformWorkersBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_transform_workers_busy",
			Help: "Number of transforms currently running",
		},
	)

	TransformQueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_transcoder_transform_queue_wait_seconds",
			Help:    "Time transforms spent waiting for a free worker slot",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	GoMemoryLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_go_memory_limit_bytes",
			Help: "Soft memory limit configured for the Go runtime (0 if unset)",
		},
	)
)

// Config resolution metrics
var (
	ConfigResolutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_transcoder_config_resolutions_total",
			Help: "Total number of option resolutions (one per transcoder instance)",
		},
	)

	ConfigResolutionDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_config_resolution_duration_seconds",
			Help: "Duration of the most recent option resolution in seconds",
		},
	)

	ConfigSourcesFound = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_config_sources_found",
			Help: "Whether a config file was found for each source (1 = found, 0 = absent)",
		},
		[]string{"source"}, // "universal", "stylesheet", "markup", "script"
	)

	ConfigParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_config_parse_errors_total",
			Help: "Total number of config files that could not be parsed",
		},
		[]string{"source"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_transcoder_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transcoder_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors encountered",
		},
		[]string{"operation"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_transcoder_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
