// Package ioutils provides file system helpers for the downloader.
//
// # File Operations
//
//	// Write a playlist without ever exposing a half-written file
//	err := ioutils.WriteFileAtomic("/videos/playlist.m3u", []byte("#EXTM3U\n"))
//
//	// Ensure the output directory exists
//	err := ioutils.EnsureDir("/videos/course")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Lecture: Part 1/2") // Returns "Lecture_ Part 1_2"
package ioutils
