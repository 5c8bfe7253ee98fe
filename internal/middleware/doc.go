// Package middleware provides the HTTP middleware wrapped around the
// transcoder.
//
// It includes:
//   - Access logging in W3C Extended Log Format
//   - gzip compression of text responses
//   - Prometheus request metrics with bounded path cardinality
package middleware
