package ffmpeg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EventKind distinguishes the progress events emitted by ffmpeg's
// -progress telemetry.
type EventKind int

const (
	// EventElapsed carries the output position reached so far.
	EventElapsed EventKind = iota
	// EventEnd marks the last block of telemetry ("progress=end").
	EventEnd
)

// Event is one parsed telemetry event.
type Event struct {
	Kind EventKind

	// Elapsed is the output position in seconds. Set for EventElapsed only.
	Elapsed float64
}

const (
	outTimeKey  = "out_time_ms="
	progressEnd = "progress=end"
)

// ParseLine converts one telemetry line into an Event.
//
// Recognized lines:
//   - out_time_ms=<integer>  → EventElapsed with Elapsed = integer / 1e6
//   - progress=end           → EventEnd
//
// Every other line, including out_time_ms values that are not integers,
// yields ok == false. The telemetry is advisory, so values are passed
// through without range checks.
func ParseLine(line string) (ev Event, ok bool) {
	line = strings.TrimSpace(line)
	if line == progressEnd {
		return Event{Kind: EventEnd}, true
	}

	raw, found := strings.CutPrefix(line, outTimeKey)
	if !found {
		return Event{}, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return Event{}, false
	}
	return Event{Kind: EventElapsed, Elapsed: float64(us) / 1_000_000.0}, true
}

// ProgressParser reads ffmpeg's key=value telemetry and yields Events.
//
// It follows the bufio.Scanner pattern:
//
//	p := NewProgressParser(stdout)
//	for p.Next() {
//	    ev := p.Event()
//	    ...
//	}
//	if err := p.Err(); err != nil { ... }
//
// Next returns false after EventEnd has been returned or when the reader is
// exhausted, whichever comes first. A parser is bound to one process and
// cannot be restarted.
type ProgressParser struct {
	scanner *bufio.Scanner
	event   Event
	done    bool
}

// NewProgressParser returns a parser reading from r.
func NewProgressParser(r io.Reader) *ProgressParser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	return &ProgressParser{scanner: scanner}
}

// Next advances to the next event.
func (p *ProgressParser) Next() bool {
	if p.done {
		return false
	}
	for p.scanner.Scan() {
		ev, ok := ParseLine(p.scanner.Text())
		if !ok {
			continue
		}
		p.event = ev
		if ev.Kind == EventEnd {
			p.done = true
		}
		return true
	}
	p.done = true
	return false
}

// Event returns the event produced by the last call to Next.
func (p *ProgressParser) Event() Event {
	return p.event
}

// Err returns the first non-EOF read error, if any.
func (p *ProgressParser) Err() error {
	return p.scanner.Err()
}
