// Package model defines the core data structures used throughout
// the hls-downloader application.
//
// # Job
//
// Job is one input stream together with its stable index and output path:
//
//	jobs := model.NewJobs(locators, &model.JobConfig{FileNamePrefix: "L", FileIndexOffset: 10, FileExtension: "mp4"})
//	fmt.Println(jobs[0].OutputPath) // "L11.mp4"
//
// # ProbeResult
//
// ProbeResult carries the probed duration of a stream, or nothing when the
// duration could not be determined.
//
// # Outcome and Summary
//
// Outcome is produced once per job when its transfer ends, and Summary
// collects all outcomes of a run together with the total elapsed time.
package model
