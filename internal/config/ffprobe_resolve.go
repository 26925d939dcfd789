package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveFFprobeBin returns an effective ffprobe binary path based on configured values.
//
// Resolution order:
//  1. Explicit ffprobeBin
//  2. Derived from a concrete ffmpegBin path (.../ffmpeg -> .../ffprobe) if that binary exists
//  3. Empty string (caller falls back to PATH resolution)
func ResolveFFprobeBin(ffprobeBin, ffmpegBin string) string {
	return resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin, os.Stat)
}

func resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin string, stat func(string) (os.FileInfo, error)) string {
	ffprobeBin = strings.TrimSpace(ffprobeBin)
	if ffprobeBin != "" {
		return ffprobeBin
	}

	ffmpegBin = strings.TrimSpace(ffmpegBin)
	if ffmpegBin == "" || !strings.ContainsRune(ffmpegBin, filepath.Separator) {
		return ""
	}

	base := filepath.Base(ffmpegBin)
	probeName := strings.Replace(base, "ffmpeg", "ffprobe", 1)
	if probeName == base {
		return ""
	}

	candidate := filepath.Join(filepath.Dir(ffmpegBin), probeName)
	if fi, err := stat(candidate); err == nil && fi != nil && !fi.IsDir() {
		return candidate
	}
	return ""
}
