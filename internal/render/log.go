package render

import (
	"sync"

	"github.com/rs/zerolog"
)

// Log renders rows as structured log entries. It is used when the output is
// not a terminal, where cursor movement would only produce garbage.
//
// Repeated identical texts for the same row are dropped.
type Log struct {
	logger zerolog.Logger

	mu   sync.Mutex
	last map[int]string
}

// NewLog creates a Log renderer writing through logger.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{
		logger: logger,
		last:   make(map[int]string),
	}
}

// UpdateRow logs text for index unless it equals the previous text.
func (l *Log) UpdateRow(index int, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[index]; ok && prev == text {
		return
	}
	l.last[index] = text
	l.logger.Info().Int("row", index).Msg(text)
}
