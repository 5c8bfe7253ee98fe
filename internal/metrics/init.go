package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	kinds := []string{"css", "js", "html"}

	for _, kind := range kinds {
		for _, outcome := range []string{"transformed", "not_modified", "error"} {
			TranscodeRequestsTotal.WithLabelValues(kind, outcome)
		}
		for _, source := range []string{"default", "override"} {
			TransformDuration.WithLabelValues(kind, source)
		}
		TransformOutputBytes.WithLabelValues(kind)
	}

	for _, reason := range []string{"method", "extension", "index_missing"} {
		TranscodePassThroughTotal.WithLabelValues(reason)
	}

	for _, source := range []string{"universal", "stylesheet", "markup", "script"} {
		ConfigSourcesFound.WithLabelValues(source)
		ConfigParseErrors.WithLabelValues(source)
	}

	for _, op := range []string{"stat", "read"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
