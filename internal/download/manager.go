package download

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/ffmpeg"
	ioutils "github.com/handiism/hls-downloader/internal/io"
	"github.com/handiism/hls-downloader/internal/log"
	"github.com/handiism/hls-downloader/internal/metrics"
	"github.com/handiism/hls-downloader/internal/model"
	"github.com/handiism/hls-downloader/internal/playlist"
	"github.com/handiism/hls-downloader/internal/render"
)

// Prober looks up the duration of a stream. It never fails: problems are
// reported as an unknown duration.
type Prober interface {
	Probe(ctx context.Context, locator string) model.ProbeResult
}

// Process is a launched transfer.
type Process interface {
	// Stdout is the progress telemetry stream.
	Stdout() io.Reader

	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
}

// Transferer launches transfers.
type Transferer interface {
	Start(ctx context.Context, locator, outputPath string) (Process, error)
}

// stderrTailer is implemented by processes that keep their stderr output.
type stderrTailer interface {
	StderrTail() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithProber replaces the ffprobe based Prober.
func WithProber(p Prober) Option {
	return func(m *Manager) { m.prober = p }
}

// WithTransferer replaces the ffmpeg based Transferer.
func WithTransferer(t Transferer) Option {
	return func(m *Manager) { m.transfer = t }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithOnOutcome registers a callback invoked once per finished job, from the
// job's goroutine.
func WithOnOutcome(fn func(model.Outcome)) Option {
	return func(m *Manager) { m.onOutcome = fn }
}

// Manager coordinates a batch of stream downloads.
type Manager struct {
	settings  *config.Settings
	jobCfg    *model.JobConfig
	renderer  render.Renderer
	formatter render.Formatter
	prober    Prober
	transfer  Transferer
	logger    zerolog.Logger
	onOutcome func(model.Outcome)
}

// NewManager creates a new download Manager rendering rows to renderer.
func NewManager(settings *config.Settings, renderer render.Renderer, opts ...Option) *Manager {
	m := &Manager{
		settings:  settings,
		jobCfg:    settings.ToJobConfig(),
		renderer:  renderer,
		formatter: render.NewFormatter(settings.Label, settings.BarLength),
		prober:    ffmpeg.NewProber(settings.EffectiveFFprobePath(), settings.ProbeTimeoutDuration()),
		transfer: runnerTransferer{ffmpeg.NewRunner(ffmpeg.RunnerConfig{
			Bin:               settings.FFmpegPath,
			AllowedExtensions: settings.AllowedExtensions,
			KillGrace:         settings.KillGraceDuration(),
		})},
		logger: log.WithComponent("download"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Jobs derives the jobs for locators without running them.
func (m *Manager) Jobs(locators []string) []*model.Job {
	return model.NewJobs(locators, m.jobCfg)
}

// RunAll downloads every locator concurrently and returns once each job has
// an outcome.
//
// Job i (1-based) owns row i of the renderer. A failing job never cancels or
// delays the others. Cancelling ctx terminates the running transfers, which
// are then reported as failed.
func (m *Manager) RunAll(ctx context.Context, locators []string) model.Summary {
	start := time.Now()
	summary := model.Summary{RunID: uuid.NewString()}
	logger := m.logger.With().Str(log.FieldRunID, summary.RunID).Logger()

	jobs := m.Jobs(locators)
	if len(jobs) == 0 {
		summary.Elapsed = time.Since(start)
		return summary
	}

	if err := ioutils.EnsureDir(m.jobCfg.OutputDir); err != nil {
		logger.Warn().Err(err).Str(log.FieldOutput, m.jobCfg.OutputDir).Msg("could not create output directory")
	}
	if a, ok := m.renderer.(render.Allocator); ok {
		a.Allocate(len(jobs))
	}

	logger.Info().Int("jobs", len(jobs)).Int("max_concurrent", m.settings.MaxConcurrentDownloads).Msg("starting downloads")

	outcomes := make([]model.Outcome, len(jobs))

	var g errgroup.Group
	limit := m.settings.MaxConcurrentDownloads
	if limit <= 0 {
		limit = -1
	}
	g.SetLimit(limit)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			outcomes[i] = m.run(ctx, logger, job, len(jobs))
			return nil
		})
	}
	_ = g.Wait()

	summary.Outcomes = outcomes
	summary.Elapsed = time.Since(start)
	summary.PlaylistPath = m.writePlaylist(logger, outcomes)

	if err := metrics.WriteTextfile(m.settings.MetricsTextfile); err != nil {
		logger.Warn().Err(err).Msg("metrics export failed")
	}

	logger.Info().
		Int("succeeded", summary.Succeeded()).
		Int("failed", summary.Failed()).
		Float64(log.FieldDuration, summary.Elapsed.Seconds()).
		Msg("downloads finished")

	return summary
}

// run drives one job from probe to exit. It always returns an outcome.
func (m *Manager) run(ctx context.Context, logger zerolog.Logger, job *model.Job, total int) model.Outcome {
	start := time.Now()
	logger = logger.With().
		Int(log.FieldJobIndex, job.Index).
		Str(log.FieldLocator, job.Locator).
		Str(log.FieldOutput, job.OutputPath).
		Logger()

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	probe := m.prober.Probe(ctx, job.Locator)
	metrics.RecordProbe(probe.Known)
	if probe.Known {
		logger.Debug().Float64("probed_s", probe.Seconds).Msg("duration probed")
	}

	outcome := model.Outcome{
		Index:      job.Index,
		Locator:    job.Locator,
		OutputPath: job.OutputPath,
		Probe:      probe,
	}

	m.renderer.UpdateRow(job.Index, m.formatter.Pending(job.Index, total, job.FileName()))

	proc, err := m.transfer.Start(ctx, job.Locator, job.OutputPath)
	if err != nil {
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		logger.Error().Err(err).Msg("transfer failed to start")
		m.renderer.UpdateRow(job.Index, m.formatter.LaunchFailed(job.Index, total, err))
		return m.finish(outcome, metrics.OutcomeLaunchFailed)
	}

	parser := ffmpeg.NewProgressParser(proc.Stdout())
	for parser.Next() {
		ev := parser.Event()
		if ev.Kind != ffmpeg.EventElapsed {
			continue
		}
		metrics.TelemetryEvents.Inc()
		m.renderer.UpdateRow(job.Index, m.formatter.Progress(job.Index, total, probe, ev.Elapsed))
	}
	if err := parser.Err(); err != nil {
		logger.Debug().Err(err).Msg("telemetry stream broke off")
	}

	code, err := proc.Wait()
	if err != nil {
		logger.Debug().Err(err).Msg("transfer wait")
	}
	outcome.ExitCode = &code
	outcome.Succeeded = code == 0
	outcome.Elapsed = time.Since(start)

	if outcome.Succeeded {
		logger.Info().Float64(log.FieldDuration, outcome.Elapsed.Seconds()).Msg("download completed")
		m.renderer.UpdateRow(job.Index, m.formatter.Completed(job.Index, total))
		return m.finish(outcome, metrics.OutcomeSucceeded)
	}

	event := logger.Error().Int(log.FieldExitCode, code).Float64(log.FieldDuration, outcome.Elapsed.Seconds())
	if t, ok := proc.(stderrTailer); ok {
		if tail := t.StderrTail(); tail != "" {
			event = event.Str("stderr_tail", tail)
		}
	}
	event.Msg("download failed")
	m.renderer.UpdateRow(job.Index, m.formatter.Failed(job.Index, total, code))
	return m.finish(outcome, metrics.OutcomeFailed)
}

func (m *Manager) finish(outcome model.Outcome, label string) model.Outcome {
	metrics.RecordJob(label, outcome.Elapsed.Seconds())
	if m.onOutcome != nil {
		m.onOutcome(outcome)
	}
	return outcome
}

// writePlaylist lists the successful outputs. It returns the written path,
// or "" when disabled, empty or failed.
func (m *Manager) writePlaylist(logger zerolog.Logger, outcomes []model.Outcome) string {
	if !m.settings.CreatePlaylist {
		return ""
	}

	var entries []playlist.Entry
	for _, o := range outcomes {
		if !o.Succeeded {
			continue
		}
		entry := playlist.Entry{
			Path:  o.OutputPath,
			Title: fmt.Sprintf("%s %d", m.formatter.Label, o.Index),
		}
		if o.Probe.HasDuration() {
			entry.Duration = o.Probe.Seconds
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return ""
	}

	format, err := playlist.ParseFormat(m.settings.PlaylistFormat)
	if err != nil {
		logger.Warn().Err(err).Msg("falling back to m3u playlist")
	}
	dir := m.jobCfg.OutputDir
	if dir == "" {
		dir = "."
	}

	path, err := playlist.NewCreator(format, m.settings.M3UExtended).Write(dir, m.settings.PlaylistFileName, entries)
	if err != nil {
		logger.Error().Err(err).Msg("playlist write failed")
		return ""
	}
	logger.Info().Str(log.FieldOutput, path).Int("entries", len(entries)).Msg("playlist written")
	return path
}

// runnerTransferer adapts ffmpeg.Runner to Transferer.
type runnerTransferer struct {
	runner *ffmpeg.Runner
}

func (t runnerTransferer) Start(ctx context.Context, locator, outputPath string) (Process, error) {
	proc, err := t.runner.Start(ctx, locator, outputPath)
	if err != nil {
		return nil, err
	}
	return proc, nil
}
