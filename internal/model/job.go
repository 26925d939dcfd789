package model

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/hls-downloader/internal/io"
)

// Job represents a single stream to download.
//
// Job contains:
//   - Index, the 1-based position of the locator in the input list
//   - Locator, the URI or path handed to ffprobe and ffmpeg
//   - OutputPath, the computed local file path
//
// The index doubles as the display row owned by this job, so it is assigned
// once by NewJobs and never changes, even when the job fails.
//
// Example:
//
//	cfg := &JobConfig{OutputDir: "/videos", FileNamePrefix: "L", FileIndexOffset: 10, FileExtension: "mp4"}
//	job := NewJob(1, "https://example.com/v.m3u8", cfg)
//	// job.OutputPath = "/videos/L11.mp4"
type Job struct {
	// Index is the 1-based position of the job in the batch.
	Index int

	// Locator names the input stream.
	Locator string

	// OutputPath is the file the transfer writes to. It is derived from the
	// index, so two jobs of the same batch never share an output path.
	OutputPath string
}

// JobConfig holds output path formatting settings.
//
// Output files are named "<prefix><index+offset>.<ext>" inside OutputDir.
type JobConfig struct {
	// OutputDir is the directory output files are written to.
	// Empty means the current working directory.
	OutputDir string

	// FileNamePrefix is prepended to the numeric part of the file name.
	FileNamePrefix string

	// FileIndexOffset is added to the job index to form the numeric part.
	FileIndexOffset int

	// FileExtension is the container extension without the leading dot.
	FileExtension string
}

// NewJob creates a Job with a computed output path.
func NewJob(index int, locator string, cfg *JobConfig) *Job {
	return &Job{
		Index:      index,
		Locator:    locator,
		OutputPath: cfg.outputPath(index),
	}
}

// NewJobs creates one Job per locator, indexed from 1 in input order.
func NewJobs(locators []string, cfg *JobConfig) []*Job {
	jobs := make([]*Job, 0, len(locators))
	for i, locator := range locators {
		jobs = append(jobs, NewJob(i+1, locator, cfg))
	}
	return jobs
}

// FileName returns the base name of the output file.
func (j *Job) FileName() string {
	return filepath.Base(j.OutputPath)
}

func (c *JobConfig) outputPath(index int) string {
	name := fmt.Sprintf("%s%d", ioutils.SanitizeFileName(c.FileNamePrefix), index+c.FileIndexOffset)
	if ext := strings.TrimPrefix(c.FileExtension, "."); ext != "" {
		name += "." + ioutils.SanitizeFileName(ext)
	}
	return filepath.Join(c.OutputDir, name)
}
