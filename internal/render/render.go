package render

// Renderer shows a text row for each job index.
//
// UpdateRow replaces the row owned by index with text. Implementations must
// accept calls from many goroutines at once, and an update for one index
// must never change the row of another index.
type Renderer interface {
	UpdateRow(index int, text string)
}

// Allocator is implemented by renderers that reserve their rows before the
// first update, so rows appear in index order regardless of which job
// reports first.
type Allocator interface {
	Allocate(rows int)
}
