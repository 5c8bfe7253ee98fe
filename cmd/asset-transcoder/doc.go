// Package main provides the entry point for the asset transcoder server.
//
// The server maps request paths onto ASSET_DIR and transforms stylesheets,
// scripts and markup when they are requested. Files of any other type are
// served unchanged by a plain file server behind the transcoder.
//
// # Application Lifecycle
//
//  1. Memory: sets GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO unless
//     GOMEMLIMIT is already set
//  2. Configuration Loading: applies the optional .env file, reads
//     environment variables and validates the asset directory
//  3. Metrics: registers build info and pre-populates label sets
//  4. Transcoder: resolves options from RawOptions and discovered config
//     files before the listener starts, then marks the service ready.
//     Concurrent transforms are capped at TRANSFORM_WORKERS
//  5. HTTP Server Setup: health routes plus the asset catch-all, wrapped in
//     metrics, access log and compression middleware
//  6. Graceful Shutdown: SIGINT/SIGTERM stop the metrics server and drain
//     the main server (30s timeout)
//
// # HTTP Servers
//
//  1. Main Server (default port 8080):
//     - /health, /healthz, /livez, /readyz, /version
//     - everything else: transcoded assets, then plain files
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Configuration Files
//
// Per-kind transformer options are read from the first matching file found
// in ASSET_DIR or any parent directory:
//
//   - universal: package.json "transcode" property, .transcoderc,
//     .transcoderc.json, .transcoderc.yaml, transcode.config.yaml, ...
//     with "css", "html" and "js" sections
//   - per kind: the same patterns for the names stylesheet, markup and script
//
// See package startup for the environment variables.
//
// # Related Packages
//
//   - [asset-transcoder/internal/transcode]: the transcoding middleware
//   - [asset-transcoder/internal/engines]: built-in transformers and plugins
//   - [asset-transcoder/internal/discovery]: config file search
//   - [asset-transcoder/internal/middleware]: HTTP middleware (logging, compression, metrics)
//   - [asset-transcoder/internal/startup]: configuration and lifecycle logging
//   - [asset-transcoder/internal/workers]: transform concurrency limiter
//   - [asset-transcoder/internal/memory]: Go memory limit setup
package main
