package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/log"
	"github.com/handiism/hls-downloader/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (.json, .yaml)")
	outputFlag := flag.String("output", "", "Output directory (overrides config)")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the screen; logs only go to a file.
	var logOutput io.Writer = io.Discard
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOutput = f
	}
	log.Configure(log.Config{Level: settings.LogLevel, Output: logOutput, Service: "hls-tui"})

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
