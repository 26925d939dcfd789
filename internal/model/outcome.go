package model

import (
	"time"
)

// Outcome records how a job ended. Exactly one Outcome is produced per job.
type Outcome struct {
	// Index is the job index the outcome belongs to.
	Index int

	// Locator and OutputPath are copied from the job for reporting.
	Locator    string
	OutputPath string

	// Succeeded is true only when the transfer process exited with code 0.
	Succeeded bool

	// ExitCode is the transfer exit code. Nil when the process never started.
	ExitCode *int

	// Err holds the launch error when the process could not be started.
	Err error

	// Probe is the duration probe result used for progress display.
	Probe ProbeResult

	// Elapsed is the wall-clock time spent on the job.
	Elapsed time.Duration
}

// Launched reports whether the transfer process was started.
func (o Outcome) Launched() bool {
	return o.ExitCode != nil
}

// Summary aggregates the outcomes of one batch run.
type Summary struct {
	// RunID identifies the run in logs.
	RunID string

	// Outcomes holds one entry per job, ordered by job index.
	Outcomes []Outcome

	// Elapsed is the total wall-clock time of the run.
	Elapsed time.Duration

	// PlaylistPath is the playlist written after the run, if any.
	PlaylistPath string
}

// Succeeded returns the number of successful jobs.
func (s Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of failed jobs.
func (s Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Failures returns the failed outcomes in index order.
func (s Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}
