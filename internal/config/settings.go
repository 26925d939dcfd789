package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ioutils "github.com/handiism/hls-downloader/internal/io"
	"github.com/handiism/hls-downloader/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned by Validate for unusable settings.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir       string `json:"output_dir" yaml:"output_dir"`
	FileNamePrefix  string `json:"file_name_prefix" yaml:"file_name_prefix"`
	FileIndexOffset int    `json:"file_index_offset" yaml:"file_index_offset"`
	FileExtension   string `json:"file_extension" yaml:"file_extension"`

	// Download settings
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"` // 0 = unbounded
	ProbeTimeout           float64 `json:"probe_timeout" yaml:"probe_timeout"`                       // seconds
	KillGracePeriod        float64 `json:"kill_grace_period" yaml:"kill_grace_period"`               // seconds

	// External tools
	FFmpegPath        string `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath       string `json:"ffprobe_path" yaml:"ffprobe_path"`
	AllowedExtensions string `json:"allowed_extensions" yaml:"allowed_extensions"`

	// Display settings
	BarLength int    `json:"bar_length" yaml:"bar_length"`
	Label     string `json:"label" yaml:"label"`

	// Playlist settings
	CreatePlaylist   bool   `json:"create_playlist" yaml:"create_playlist"`
	PlaylistFormat   string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls
	PlaylistFileName string `json:"playlist_file_name" yaml:"playlist_file_name"`
	M3UExtended      bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Input fetching
	UserAgent   string  `json:"user_agent" yaml:"user_agent"`
	HTTPTimeout float64 `json:"http_timeout" yaml:"http_timeout"` // seconds

	// Observability
	LogLevel        string `json:"log_level" yaml:"log_level"`
	LogFile         string `json:"log_file" yaml:"log_file"`
	MetricsTextfile string `json:"metrics_textfile" yaml:"metrics_textfile"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:       "",
		FileNamePrefix:  "L",
		FileIndexOffset: 10,
		FileExtension:   "mp4",

		MaxConcurrentDownloads: 0,
		ProbeTimeout:           30,
		KillGracePeriod:        5,

		FFmpegPath:        "ffmpeg",
		AllowedExtensions: "ALL",

		BarLength: 30,
		Label:     "Video",

		CreatePlaylist:   false,
		PlaylistFormat:   "m3u",
		PlaylistFileName: "playlist",
		M3UExtended:      true,

		UserAgent:   "hls-downloader",
		HTTPTimeout: 60,

		LogLevel: "info",
	}
}

// Load reads settings from a JSON or YAML file.
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// Values missing from the file keep their defaults. A missing file yields
// the default settings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return ioutils.WriteFileAtomic(path, data)
}

// Validate reports settings that would make every download fail.
func (s *Settings) Validate() error {
	var problems []string
	if strings.TrimSpace(s.FFmpegPath) == "" {
		problems = append(problems, "ffmpeg_path must not be empty")
	}
	if s.MaxConcurrentDownloads < 0 {
		problems = append(problems, "max_concurrent_downloads must be >= 0")
	}
	if s.BarLength <= 0 {
		problems = append(problems, "bar_length must be > 0")
	}
	if s.FileIndexOffset < 0 {
		problems = append(problems, "file_index_offset must be >= 0")
	}
	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls":
	default:
		problems = append(problems, fmt.Sprintf("unknown playlist_format %q", s.PlaylistFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// ToJobConfig converts settings to JobConfig.
func (s *Settings) ToJobConfig() *model.JobConfig {
	return &model.JobConfig{
		OutputDir:       s.OutputDir,
		FileNamePrefix:  s.FileNamePrefix,
		FileIndexOffset: s.FileIndexOffset,
		FileExtension:   s.FileExtension,
	}
}

// EffectiveFFprobePath returns the ffprobe binary to invoke.
func (s *Settings) EffectiveFFprobePath() string {
	if bin := ResolveFFprobeBin(s.FFprobePath, s.FFmpegPath); bin != "" {
		return bin
	}
	return "ffprobe"
}

// ProbeTimeoutDuration returns ProbeTimeout as a time.Duration.
func (s *Settings) ProbeTimeoutDuration() time.Duration {
	return seconds(s.ProbeTimeout)
}

// KillGraceDuration returns KillGracePeriod as a time.Duration.
func (s *Settings) KillGraceDuration() time.Duration {
	return seconds(s.KillGracePeriod)
}

// HTTPTimeoutDuration returns HTTPTimeout as a time.Duration.
func (s *Settings) HTTPTimeoutDuration() time.Duration {
	return seconds(s.HTTPTimeout)
}

func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
