package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/handiism/hls-downloader/internal/model"
)

const (
	filledCell = "="
	emptyCell  = "-"
)

// Formatter builds the row texts shown for a job.
type Formatter struct {
	// Label prefixes every row, e.g. "Video".
	Label string

	// BarLength is the number of cells in the progress bar.
	BarLength int
}

// NewFormatter creates a Formatter, falling back to "Video" and 30 cells.
func NewFormatter(label string, barLength int) Formatter {
	if label == "" {
		label = "Video"
	}
	if barLength <= 0 {
		barLength = 30
	}
	return Formatter{Label: label, BarLength: barLength}
}

// Fraction returns elapsed/duration clamped to [0, 1].
func Fraction(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Min(math.Max(elapsed/duration, 0), 1)
}

// Bar renders a fixed-width bar with floor(BarLength*fraction) filled cells.
func (f Formatter) Bar(fraction float64) string {
	fraction = math.Min(math.Max(fraction, 0), 1)
	filled := int(math.Floor(float64(f.BarLength) * fraction))
	return strings.Repeat(filledCell, filled) + strings.Repeat(emptyCell, f.BarLength-filled)
}

// Pending is shown before the transfer reports any progress.
func (f Formatter) Pending(index, total int, fileName string) string {
	return fmt.Sprintf("%s → %s", f.prefix(index, total), fileName)
}

// Progress renders a bar and percentage when the duration is known,
// otherwise the elapsed output time.
func (f Formatter) Progress(index, total int, probe model.ProbeResult, elapsed float64) string {
	if !probe.HasDuration() {
		return fmt.Sprintf("%s Elapsed: %.1fs", f.prefix(index, total), elapsed)
	}
	fraction := Fraction(elapsed, probe.Seconds)
	return fmt.Sprintf("%s [%s] %6.2f%%", f.prefix(index, total), f.Bar(fraction), fraction*100)
}

// Completed is the final row of a successful job.
func (f Formatter) Completed(index, total int) string {
	return f.prefix(index, total) + " completed successfully!"
}

// Failed is the final row of a job whose transfer exited with code.
func (f Formatter) Failed(index, total, code int) string {
	return fmt.Sprintf("%s failed with return code %d", f.prefix(index, total), code)
}

// LaunchFailed is the final row of a job whose transfer never started.
func (f Formatter) LaunchFailed(index, total int, err error) string {
	return fmt.Sprintf("%s failed to start: %v", f.prefix(index, total), err)
}

func (f Formatter) prefix(index, total int) string {
	return fmt.Sprintf("%s %d/%d", f.Label, index, total)
}
