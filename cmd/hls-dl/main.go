package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/download"
	"github.com/handiism/hls-downloader/internal/http"
	"github.com/handiism/hls-downloader/internal/input"
	"github.com/handiism/hls-downloader/internal/log"
	"github.com/handiism/hls-downloader/internal/model"
	"github.com/handiism/hls-downloader/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. Every
// deferred cleanup has run by the time it returns.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("hls-dl", flag.ContinueOnError)
	flags.SetOutput(stderr)

	// Command line flags
	var (
		inputFlag       = flags.String("input", "", "File, http(s) URL or - (stdin) listing stream URLs, one per line")
		outputFlag      = flags.String("output", "", "Output directory (overrides config)")
		configFlag      = flags.String("config", "", "Path to config file (.json, .yaml)")
		concurrencyFlag = flags.Int("concurrency", 0, "Maximum parallel downloads, 0 for no limit")
		prefixFlag      = flags.String("prefix", "", "Output file name prefix")
		offsetFlag      = flags.Int("offset", 0, "Number added to the stream index in output file names")
		extFlag         = flags.String("ext", "", "Output file extension")
		playlistFlag    = flags.Bool("playlist", false, "Create playlist file of completed downloads")
		verboseFlag     = flags.Bool("verbose", false, "Show debug logs")
		logFileFlag     = flags.String("log-file", "", "Append logs to this file")
		metricsFlag     = flags.String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")
		plainFlag       = flags.Bool("plain", false, "Print progress as log lines instead of live rows")
		dryRunFlag      = flags.Bool("dry-run", false, "Show the output files without downloading")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	source := *inputFlag
	if source == "" && flags.NArg() == 0 && !isTerminal(stdin) {
		source = input.StdinSource
	}

	if source == "" && flags.NArg() == 0 {
		fmt.Fprintln(stdout, "HLS Downloader - Download HLS streams with ffmpeg")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Usage:")
		fmt.Fprintln(stdout, "  hls-dl [options] <URL> [URL...]")
		fmt.Fprintln(stdout, "  hls-dl [options] -input urls.txt")
		fmt.Fprintln(stdout, "  cat urls.txt | hls-dl [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "For interactive mode, use: hls-tui")
		fmt.Fprintln(stdout)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return exitUsage
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return exitFailure
		}
	}

	// Apply flags
	if set["output"] {
		settings.OutputDir = *outputFlag
	}
	if set["concurrency"] {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if set["prefix"] {
		settings.FileNamePrefix = *prefixFlag
	}
	if set["offset"] {
		settings.FileIndexOffset = *offsetFlag
	}
	if set["ext"] {
		settings.FileExtension = *extFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if set["log-file"] {
		settings.LogFile = *logFileFlag
	}
	if set["metrics-textfile"] {
		settings.MetricsTextfile = *metricsFlag
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	live := !*plainFlag && isTerminal(stdout)

	logOutput, closeLog, err := openLogOutput(settings.LogFile, live, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening log file: %v\n", err)
		return exitFailure
	}
	defer closeLog()
	log.Configure(log.Config{Level: settings.LogLevel, Output: logOutput})

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "\nInterrupted, stopping downloads...")
			cancel()
		case <-ctx.Done():
		}
	}()

	client := http.NewClient(settings.UserAgent, settings.HTTPTimeoutDuration())
	locators, err := input.Collect(ctx, flags.Args(), source, stdin, client)
	if err != nil {
		if errors.Is(err, input.ErrNoLocators) {
			fmt.Fprintln(stderr, "Error: no stream URLs given")
			return exitUsage
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	var renderer render.Renderer
	if live {
		renderer = render.NewTerminal(stdout, terminalWidth(stdout))
	} else {
		renderer = render.NewLog(zerolog.New(zerolog.ConsoleWriter{
			Out:        stdout,
			NoColor:    true,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp().Logger())
	}

	manager := download.NewManager(settings, renderer)

	if *dryRunFlag {
		printJobs(stdout, manager.Jobs(locators))
		fmt.Fprintln(stdout, "\n[Dry run - not downloading]")
		return exitOK
	}

	summary := manager.RunAll(ctx, locators)
	printSummary(stdout, settings.Label, summary)

	return exitCode(ctx.Err() != nil, summary)
}

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// exitCode maps a finished run to the process exit status.
func exitCode(interrupted bool, summary model.Summary) int {
	switch {
	case interrupted:
		return exitInterrupted
	case summary.Failed() > 0:
		return exitFailure
	default:
		return exitOK
	}
}

// openLogOutput picks where logs go. Live rows own stdout and the cursor,
// so without a log file the logs are dropped rather than interleaved.
func openLogOutput(path string, live bool, stderr io.Writer) (io.Writer, func(), error) {
	if path == "" {
		if live {
			return io.Discard, func() {}, nil
		}
		return stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth reports the column count of w, or 0 when it is unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return width
}

func printJobs(w io.Writer, jobs []*model.Job) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tOUTPUT\tURL")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", job.Index, job.OutputPath, job.Locator)
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, label string, summary model.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Downloaded %d/%d streams\n", summary.Succeeded(), len(summary.Outcomes))
	for _, o := range summary.Failures() {
		if o.Launched() {
			fmt.Fprintf(w, "  %s %d: return code %d (%s)\n", label, o.Index, *o.ExitCode, o.Locator)
		} else {
			fmt.Fprintf(w, "  %s %d: failed to start: %v (%s)\n", label, o.Index, o.Err, o.Locator)
		}
	}
	if summary.PlaylistPath != "" {
		fmt.Fprintf(w, "Playlist: %s\n", summary.PlaylistPath)
	}
	fmt.Fprintf(w, "\nTotal download time: %.2f seconds\n", summary.Elapsed.Seconds())
}
