package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/handiism/hls-downloader/internal/procgroup"
)

const stderrTailSize = 8192

// RunnerConfig configures how transfers are launched.
type RunnerConfig struct {
	// Bin is the ffmpeg binary.
	Bin string

	// AllowedExtensions is passed to the HLS demuxer. Empty omits the option.
	AllowedExtensions string

	// KillGrace is how long a cancelled transfer may take to exit after
	// SIGTERM before it is killed.
	KillGrace time.Duration
}

// Runner launches ffmpeg stream copies with machine-readable progress on stdout.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Bin == "" {
		cfg.Bin = "ffmpeg"
	}
	return &Runner{cfg: cfg}
}

// Args returns the ffmpeg arguments copying locator into outputPath.
//
// The output is overwritten and codecs are copied. Key=value progress goes
// to stdout; stderr carries error messages only.
func (r *Runner) Args(locator, outputPath string) []string {
	args := []string{
		"-nostdin",
		"-y",
		"-loglevel", "error",
		"-nostats",
		"-progress", "pipe:1",
	}
	if r.cfg.AllowedExtensions != "" {
		args = append(args, "-allowed_extensions", r.cfg.AllowedExtensions)
	}
	return append(args,
		"-i", locator,
		"-c", "copy",
		outputPath,
	)
}

// Start launches a transfer. The returned Process must be waited on.
//
// Cancelling ctx terminates the transfer's process group.
func (r *Runner) Start(ctx context.Context, locator, outputPath string) (*Process, error) {
	// #nosec G204 - binary comes from settings; arguments are built here
	cmd := exec.CommandContext(ctx, r.cfg.Bin, r.Args(locator, outputPath)...)
	procgroup.Set(cmd)
	cmd.Cancel = func() error { return procgroup.Terminate(cmd) }
	if r.cfg.KillGrace > 0 {
		cmd.WaitDelay = r.cfg.KillGrace
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderr := &tailBuffer{max: stderrTailSize}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.cfg.Bin, err)
	}

	return &Process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// Process is a running transfer.
type Process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer
}

// Stdout returns the progress telemetry stream.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// Pid returns the operating system process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Wait discards unread telemetry, waits for the process to exit and returns
// its exit code. A non-zero exit is reported only through the code; the
// error is set when the process could not be waited on cleanly, for example
// after a cancellation.
func (p *Process) Wait() (int, error) {
	// The pipe must be drained before cmd.Wait closes it.
	_, _ = io.Copy(io.Discard, p.stdout)

	err := p.cmd.Wait()
	code := -1
	if p.cmd.ProcessState != nil {
		code = p.cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	return code, err
}

// StderrTail returns the last bytes the process wrote to stderr.
func (p *Process) StderrTail() string {
	return p.stderr.String()
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
