/*
Package filesystem provides the stat and read operations the transcoder
performs on every request, with automatic retry of NFS stale file handle
errors.

# Purpose

Project directories are frequently served from network mounts in
development containers. ESTALE (stale file handle) errors on such mounts are
transient, so Stat and ReadFile retry them with exponential backoff instead
of surfacing a spurious failure to the client.

# Usage

	fsys := filesystem.NewOS()

	info, err := fsys.Stat("/site/app.js")
	if err != nil {
	    return err
	}
	src, err := fsys.ReadFile("/site/app.js")

Custom retry configuration:

	fsys := &filesystem.OS{Retry: filesystem.RetryConfig{
	    MaxRetries:     5,
	    InitialBackoff: 100 * time.Millisecond,
	    MaxBackoff:     1 * time.Second,
	}}

# Retry Behavior

Defaults: 3 retries, 50ms initial backoff, 500ms cap. Only ESTALE triggers a
retry; every other error (including "not exist") fails immediately.

# Metrics

Install an Observer with SetObserver to record operation durations, retry
attempts and stale handle counts. The metrics package provides one.
*/
package filesystem
