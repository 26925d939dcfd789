package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	xlog "github.com/handiism/hls-downloader/internal/log"
	"github.com/handiism/hls-downloader/internal/model"
	"github.com/handiism/hls-downloader/internal/procgroup"
	"github.com/rs/zerolog"
)

// ErrNoDuration is returned by ParseDuration when ffprobe printed nothing usable.
var ErrNoDuration = errors.New("no duration in probe output")

// Prober determines stream durations with ffprobe.
type Prober struct {
	bin     string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewProber creates a Prober running bin. A timeout of zero disables the
// per-probe deadline.
func NewProber(bin string, timeout time.Duration) *Prober {
	return &Prober{
		bin:     bin,
		timeout: timeout,
		logger:  xlog.WithComponent("probe"),
	}
}

// Args returns the ffprobe arguments for locator: the container duration of
// an input with a first video stream, printed as a bare number.
func (p *Prober) Args(locator string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		locator,
	}
}

// Probe returns the duration of locator in seconds.
//
// Probe never fails: a launch error, a non-zero exit, a timeout or output
// that is not a number all produce an unknown ProbeResult.
func (p *Prober) Probe(ctx context.Context, locator string) model.ProbeResult {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// #nosec G204 - binary comes from settings; locator is passed as a single argument
	cmd := exec.CommandContext(ctx, p.bin, p.Args(locator)...)
	procgroup.Set(cmd)
	cmd.Cancel = func() error { return procgroup.Terminate(cmd) }
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		p.logger.Debug().Err(err).
			Str(xlog.FieldLocator, locator).
			Str("stderr", truncate(stderr.String(), 512)).
			Msg("ffprobe failed, duration unknown")
		return model.UnknownDuration()
	}

	seconds, err := ParseDuration(out)
	if err != nil {
		p.logger.Debug().Err(err).Str(xlog.FieldLocator, locator).Msg("unusable ffprobe output, duration unknown")
		return model.UnknownDuration()
	}
	return model.KnownDuration(seconds)
}

// ParseDuration parses ffprobe's bare numeric duration output.
func ParseDuration(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0, ErrNoDuration
	}
	// Only the first line matters when several streams report a value.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, s)
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
