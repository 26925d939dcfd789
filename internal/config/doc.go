// Package config provides configuration management for hls-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Validation
//   - Conversion to model.JobConfig and ffprobe path resolution
//
// # Default Settings
//
// Use DefaultSettings() to get the defaults:
//
//	settings := config.DefaultSettings()
//	// Outputs named L11.mp4, L12.mp4, ... in the working directory
//	// Unbounded concurrency, 30-cell progress bars
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Returned only for unreadable or malformed files;
//	    // a missing file yields the defaults.
//	}
//
// # Saving Settings
//
//	settings.OutputDir = "/videos/course"
//	err := settings.Save("/path/to/config.json")
package config
