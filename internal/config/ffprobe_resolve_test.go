package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeFileInfo struct {
	dir bool
}

func (f fakeFileInfo) Name() string       { return "ffprobe" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0755 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

func TestResolveFFprobeBin(t *testing.T) {
	binDir := filepath.Join("opt", "ffmpeg", "bin")
	derived := filepath.Join(binDir, "ffprobe")

	statFound := func(path string) (os.FileInfo, error) {
		if path == derived {
			return fakeFileInfo{}, nil
		}
		return nil, os.ErrNotExist
	}
	statMissing := func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

	tests := []struct {
		name    string
		ffprobe string
		ffmpeg  string
		stat    func(string) (os.FileInfo, error)
		want    string
	}{
		{"explicit wins", " /usr/bin/ffprobe ", filepath.Join(binDir, "ffmpeg"), statFound, "/usr/bin/ffprobe"},
		{"derived from ffmpeg path", "", filepath.Join(binDir, "ffmpeg"), statFound, derived},
		{"derived binary missing", "", filepath.Join(binDir, "ffmpeg"), statMissing, ""},
		{"bare ffmpeg uses PATH", "", "ffmpeg", statFound, ""},
		{"not an ffmpeg binary", "", filepath.Join(binDir, "avconv"), statFound, ""},
		{"empty", "", "", statFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveFFprobeBinWithStat(tt.ffprobe, tt.ffmpeg, tt.stat); got != tt.want {
				t.Errorf("resolve = %q, want %q", got, tt.want)
			}
		})
	}
}
