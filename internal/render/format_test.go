package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/handiism/hls-downloader/internal/model"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  float64
		duration float64
		want     float64
	}{
		{"half", 60, 120, 0.5},
		{"complete", 60, 60, 1},
		{"overshoot clamps", 75, 60, 1},
		{"negative clamps", -5, 60, 0},
		{"zero duration", 10, 0, 0},
		{"negative duration", 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Fraction(tt.elapsed, tt.duration), 1e-9)
		})
	}
}

func TestFormatter_Bar(t *testing.T) {
	f := NewFormatter("Video", 30)

	tests := []struct {
		name     string
		fraction float64
		filled   int
	}{
		{"empty", 0, 0},
		{"half", 0.5, 15},
		{"floors partial cells", 0.99, 29},
		{"full", 1, 30},
		{"above one", 1.5, 30},
		{"below zero", -0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := f.Bar(tt.fraction)
			assert.Len(t, bar, 30)
			assert.Equal(t, tt.filled, strings.Count(bar, "="))
			assert.Equal(t, 30-tt.filled, strings.Count(bar, "-"))
		})
	}
}

func TestFormatter_Progress(t *testing.T) {
	f := NewFormatter("Video", 30)

	tests := []struct {
		name    string
		probe   model.ProbeResult
		elapsed float64
		want    string
	}{
		{
			name:    "known duration half way",
			probe:   model.KnownDuration(120),
			elapsed: 60,
			want:    "Video 1/3 [" + strings.Repeat("=", 15) + strings.Repeat("-", 15) + "]  50.00%",
		},
		{
			name:    "known duration complete",
			probe:   model.KnownDuration(60),
			elapsed: 60,
			want:    "Video 1/3 [" + strings.Repeat("=", 30) + "] 100.00%",
		},
		{
			name:    "overshoot never exceeds 100",
			probe:   model.KnownDuration(60),
			elapsed: 61.5,
			want:    "Video 1/3 [" + strings.Repeat("=", 30) + "] 100.00%",
		},
		{
			name:    "unknown duration",
			probe:   model.UnknownDuration(),
			elapsed: 60,
			want:    "Video 1/3 Elapsed: 60.0s",
		},
		{
			name:    "zero duration treated as unknown",
			probe:   model.KnownDuration(0),
			elapsed: 1.5,
			want:    "Video 1/3 Elapsed: 1.5s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Progress(1, 3, tt.probe, tt.elapsed))
		})
	}
}

func TestFormatter_FinalRows(t *testing.T) {
	f := NewFormatter("Video", 30)

	assert.Equal(t, "Video 2/3 completed successfully!", f.Completed(2, 3))
	assert.Equal(t, "Video 2/3 failed with return code 1", f.Failed(2, 3, 1))
	assert.Equal(t, "Video 2/3 failed with return code -1", f.Failed(2, 3, -1))
	assert.Equal(t, "Video 3/3 failed to start: boom", f.LaunchFailed(3, 3, errors.New("boom")))
	assert.Equal(t, "Video 1/3 → L11.mp4", f.Pending(1, 3, "L11.mp4"))
}

func TestNewFormatter_Defaults(t *testing.T) {
	f := NewFormatter("", 0)
	assert.Equal(t, "Video", f.Label)
	assert.Equal(t, 30, f.BarLength)

	f = NewFormatter("Clip", 10)
	assert.Equal(t, "Clip 1/1 completed successfully!", f.Completed(1, 1))
	assert.Len(t, f.Bar(0.5), 10)
}
