// Package download runs a batch of HLS stream downloads concurrently.
//
// # Manager
//
// For every locator the Manager creates a job with a stable 1-based index
// and runs it on its own goroutine:
//
//  1. Probe the stream duration (best effort, never fails)
//  2. Show the pending row
//  3. Launch the transfer process
//  4. Turn each elapsed-time telemetry event into a progress row
//  5. Wait for the exit code and show the final row
//
// # Basic Usage
//
//	renderer := render.NewTerminal(os.Stdout, 0)
//	manager := download.NewManager(settings, renderer)
//
//	summary := manager.RunAll(ctx, []string{
//	    "https://example.com/lecture1/index.m3u8",
//	    "https://example.com/lecture2/index.m3u8",
//	})
//	fmt.Printf("Total download time: %.2f seconds\n", summary.Elapsed.Seconds())
//
// # Concurrency
//
// Jobs are independent. A probe failure only degrades the row to elapsed
// time, and a launch failure or non-zero exit only marks that job as
// failed. Settings.MaxConcurrentDownloads caps the number of running jobs;
// zero starts every job at once.
//
// Cancelling the context passed to RunAll terminates running transfers.
// Without cancellation a transfer always runs to its own exit.
//
// # Rows
//
// Job i only ever updates row i of the Renderer. Renderers that implement
// render.Allocator get all rows reserved before the first job starts.
package download
