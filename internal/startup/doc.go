// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// A dotenv file is applied first; variables already present in the
// environment take precedence over the file.
//
//   - ENV_FILE: dotenv file to load (default: .env, missing is fine)
//   - ASSET_DIR: directory served and transcoded (default: .)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - INDEX: index file for extensionless paths; false, off or 0 disables
//     the fallback (default: index.html)
//   - CONFIG_NAME: universal config name searched for in ASSET_DIR and its
//     parents, e.g. .transcoderc.yaml (default: transcode)
//   - COMPRESSION_ENABLED: gzip text responses (default: true)
//   - VERBOSE_ERRORS: include error text in 500 responses (default: false)
//   - TRANSFORM_WORKERS: transforms allowed to run at once (default: one
//     per available CPU)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log requests for images and fonts (default: true)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Lifecycle logging
//
// The Log* functions print the banner-style sections seen at startup and
// shutdown so that every stage of the process is visible in container logs.
package startup
