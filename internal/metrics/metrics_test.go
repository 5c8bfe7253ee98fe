package metrics

import (
	"errors"
	"testing"

	"asset-transcoder/internal/filesystem"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"TranscodeRequestsTotal", TranscodeRequestsTotal},
		{"TranscodePassThroughTotal", TranscodePassThroughTotal},
		{"TransformDuration", TransformDuration},
		{"TransformOutputBytes", TransformOutputBytes},
		{"ConfigResolutionsTotal", ConfigResolutionsTotal},
		{"ConfigSourcesFound", ConfigSourcesFound},
		{"ConfigParseErrors", ConfigParseErrors},
		{"FilesystemOperationDuration", FilesystemOperationDuration},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsExportsLabels(t *testing.T) {
	InitializeMetrics()

	if got := testutil.CollectAndCount(TranscodeRequestsTotal); got < 9 {
		t.Errorf("TranscodeRequestsTotal series = %d, want at least 9", got)
	}
	if got := testutil.CollectAndCount(TranscodePassThroughTotal); got < 3 {
		t.Errorf("TranscodePassThroughTotal series = %d, want at least 3", got)
	}
	if got := testutil.CollectAndCount(ConfigSourcesFound); got < 4 {
		t.Errorf("ConfigSourcesFound series = %d, want at least 4", got)
	}
}

func TestFilesystemObserver(t *testing.T) {
	var obs filesystem.Observer = NewFilesystemObserver()

	beforeErrs := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("stat"))
	beforeStale := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("read"))
	beforeAttempts := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("read"))
	beforeSuccess := testutil.ToFloat64(FilesystemRetrySuccess.WithLabelValues("read"))
	beforeFailures := testutil.ToFloat64(FilesystemRetryFailures.WithLabelValues("stat"))

	obs.ObserveOperation("stat", 0.01, errors.New("boom"))
	obs.ObserveOperation("stat", 0.01, nil)
	obs.ObserveStaleError("read")
	obs.ObserveRetryAttempt("read")
	obs.ObserveRetrySuccess("read")
	obs.ObserveRetryFailure("stat")

	if got := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("stat")) - beforeErrs; got != 1 {
		t.Errorf("stat errors delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("read")) - beforeStale; got != 1 {
		t.Errorf("stale errors delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("read")) - beforeAttempts; got != 1 {
		t.Errorf("retry attempts delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FilesystemRetrySuccess.WithLabelValues("read")) - beforeSuccess; got != 1 {
		t.Errorf("retry success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FilesystemRetryFailures.WithLabelValues("stat")) - beforeFailures; got != 1 {
		t.Errorf("retry failures delta = %v, want 1", got)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")

	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}

func TestTranscodeMetricOperations(_ *testing.T) {
	TranscodeRequestsTotal.WithLabelValues("css", "transformed").Inc()
	TranscodePassThroughTotal.WithLabelValues("method").Inc()
	TransformDuration.WithLabelValues("js", "default").Observe(0.02)
	TransformOutputBytes.WithLabelValues("html").Observe(2048)
	ConfigResolutionsTotal.Inc()
	ConfigResolutionDuration.Set(0.003)
	ConfigSourcesFound.WithLabelValues("universal").Set(1)
	ConfigParseErrors.WithLabelValues("markup").Inc()
}
