package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/hls-downloader/internal/metrics"
)

func TestRecordJob(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
	}{
		{"succeeded", metrics.OutcomeSucceeded},
		{"failed", metrics.OutcomeFailed},
		{"launch failed", metrics.OutcomeLaunchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.JobsTotal.WithLabelValues(tt.outcome))
			metrics.RecordJob(tt.outcome, 3.5)
			after := testutil.ToFloat64(metrics.JobsTotal.WithLabelValues(tt.outcome))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordProbe(t *testing.T) {
	known := testutil.ToFloat64(metrics.ProbesTotal.WithLabelValues(metrics.ProbeKnown))
	unknown := testutil.ToFloat64(metrics.ProbesTotal.WithLabelValues(metrics.ProbeUnknown))

	metrics.RecordProbe(true)
	metrics.RecordProbe(false)
	metrics.RecordProbe(false)

	assert.Equal(t, known+1, testutil.ToFloat64(metrics.ProbesTotal.WithLabelValues(metrics.ProbeKnown)))
	assert.Equal(t, unknown+2, testutil.ToFloat64(metrics.ProbesTotal.WithLabelValues(metrics.ProbeUnknown)))
}

func TestWriteTextfile(t *testing.T) {
	metrics.RecordJob(metrics.OutcomeSucceeded, 1)

	path := filepath.Join(t.TempDir(), "hlsdl.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hlsdl_jobs_total{outcome="succeeded"}`)
	assert.Contains(t, string(data), "hlsdl_job_duration_seconds_bucket")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, metrics.WriteTextfile(""))
}

func TestWriteTextfile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hlsdl.prom")
	assert.Error(t, metrics.WriteTextfile(path))
}
