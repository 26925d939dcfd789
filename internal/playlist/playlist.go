package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/hls-downloader/internal/io"
)

// Format represents supported playlist file formats.
//
//   - M3U: simple text format, widely supported
//   - PLS: INI-style format, used by Winamp and VLC
type Format int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U Format = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParseFormat maps a settings value to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", name)
	}
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	if f == FormatPLS {
		return "pls"
	}
	return "m3u"
}

// Entry is one downloaded file listed in a playlist.
type Entry struct {
	// Path is the downloaded file. Only its base name is written.
	Path string

	// Title is shown by players that read extended info.
	Title string

	// Duration in seconds. Zero or negative means unknown.
	Duration float64
}

// Creator generates playlist files for a batch of downloads.
//
// Example:
//
//	creator := playlist.NewCreator(playlist.FormatM3U, true)
//	path, err := creator.Write("/videos", "playlist", entries)
//
//	// /videos/playlist.m3u:
//	// #EXTM3U
//	// #EXTINF:120,Video 1
//	// L11.mp4
type Creator struct {
	format   Format
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewCreator creates a new Creator. extended is ignored for PLS.
func NewCreator(format Format, extended bool) *Creator {
	return &Creator{
		format:   format,
		extended: extended,
	}
}

// Create renders the playlist content. Paths are written relative to the
// directory holding the playlist, which is the download directory.
func (c *Creator) Create(entries []Entry) string {
	if c.format == FormatPLS {
		return c.createPLS(entries)
	}
	return c.createM3U(entries)
}

// Write renders entries and atomically writes them to
// dir/name.<extension>. It returns the written path.
func (c *Creator) Write(dir, name string, entries []Entry) (string, error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}
	if name == "" {
		name = "playlist"
	}
	path := filepath.Join(dir, ioutils.SanitizeFileName(name)+"."+c.format.Extension())
	if err := ioutils.WriteFileAtomic(path, []byte(c.Create(entries))); err != nil {
		return "", err
	}
	return path, nil
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:120,Video 1
//	L11.mp4
func (c *Creator) createM3U(entries []Entry) string {
	var sb strings.Builder

	if c.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if c.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", seconds(e.Duration), e.Title)
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=L11.mp4
//	Title1=Video 1
//	Length1=120
//	NumberOfEntries=1
//	Version=2
func (c *Creator) createPLS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, filepath.Base(e.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, seconds(e.Duration))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// seconds rounds d to whole seconds; -1 marks an unknown length in both formats.
func seconds(d float64) int {
	if d <= 0 {
		return -1
	}
	return int(d + 0.5)
}
