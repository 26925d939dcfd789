package model

// ProbeResult is the outcome of probing a stream for its duration.
//
// A zero ProbeResult means the duration is unknown: the probe failed, timed
// out, printed something that is not a number, or the stream has no fixed
// duration (a live stream).
type ProbeResult struct {
	// Seconds is the probed duration. Only meaningful when Known is true.
	Seconds float64

	// Known reports whether the probe produced a number.
	Known bool
}

// KnownDuration returns a ProbeResult carrying seconds.
func KnownDuration(seconds float64) ProbeResult {
	return ProbeResult{Seconds: seconds, Known: true}
}

// UnknownDuration returns a ProbeResult for a failed probe.
func UnknownDuration() ProbeResult {
	return ProbeResult{}
}

// HasDuration reports whether the result can be used to compute a completion
// percentage. Zero and negative durations are treated like unknown ones.
func (p ProbeResult) HasDuration() bool {
	return p.Known && p.Seconds > 0
}
