// Package metrics provides Prometheus instrumentation for the asset transcoder.
//
// All metrics are prefixed with "asset_transcoder_" and registered with the
// default registry through promauto.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Recorded by the metrics middleware for every request:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Transcode Metrics
//
// Recorded by the transcode middleware:
//   - TranscodeRequestsTotal: Counter by asset kind and outcome
//     (transformed, not_modified, error)
//   - TranscodePassThroughTotal: Counter of requests handed to the next handler
//   - TransformDuration: Histogram of transformer time by kind and source
//     (default transformer or caller override)
//   - TransformOutputBytes: Histogram of output size by kind
//
// ## Config Metrics
//
// Recorded once per transcoder when options are resolved:
//   - ConfigResolutionsTotal, ConfigResolutionDuration
//   - ConfigSourcesFound: 1 per source whose config file was found
//   - ConfigParseErrors: malformed config files that were ignored
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver:
//   - FilesystemOperationDuration / FilesystemOperationErrors by operation
//   - FilesystemRetryAttempts / Success / Failures and FilesystemStaleErrors
//
// # Initialization
//
// Call InitializeMetrics at startup so every label combination is exported
// from the first scrape, and SetAppInfo to publish build information.
package metrics
