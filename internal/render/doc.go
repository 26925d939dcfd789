// Package render displays one live status row per download job.
//
// # Renderer
//
// Renderer is the single capability the download manager needs:
//
//	type Renderer interface {
//	    UpdateRow(index int, text string)
//	}
//
// Implementations in this package:
//   - Terminal: rewrites rows in place with ANSI cursor movement
//   - Log: emits each new row text as a zerolog entry
//
// The Bubble Tea front end in internal/tui provides a third one.
//
// # Formatter
//
// Formatter builds the texts:
//
//	f := render.NewFormatter("Video", 30)
//	f.Progress(1, 3, model.KnownDuration(120), 60) // "Video 1/3 [===============---------------]  50.00%"
//	f.Progress(2, 3, model.UnknownDuration(), 60)  // "Video 2/3 Elapsed: 60.0s"
package render
