// Package handlers provides the operational HTTP endpoints of the asset
// transcoder: health, liveness, readiness, version and Prometheus metrics.
// Asset requests themselves are served by package transcode.
package handlers
