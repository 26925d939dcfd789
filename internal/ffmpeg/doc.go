// Package ffmpeg wraps the two external tools the downloader drives.
//
// # Prober
//
// Prober asks ffprobe for the duration of a stream. It is best effort:
// every failure is reported as an unknown duration.
//
//	prober := ffmpeg.NewProber("ffprobe", 30*time.Second)
//	result := prober.Probe(ctx, "https://example.com/v.m3u8")
//
// # Runner
//
// Runner starts an ffmpeg stream copy with "-progress pipe:1", so the
// process writes key=value telemetry to its stdout:
//
//	runner := ffmpeg.NewRunner(ffmpeg.RunnerConfig{Bin: "ffmpeg", AllowedExtensions: "ALL"})
//	proc, err := runner.Start(ctx, locator, "L11.mp4")
//	if err != nil {
//	    // launch failure
//	}
//	parser := ffmpeg.NewProgressParser(proc.Stdout())
//	for parser.Next() {
//	    fmt.Println(parser.Event().Elapsed)
//	}
//	code, _ := proc.Wait()
//
// # Telemetry
//
// ProgressParser understands two lines of the protocol: out_time_ms=<n>
// (microseconds, despite the name) and progress=end. Everything else is
// skipped.
package ffmpeg
