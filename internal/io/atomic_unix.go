//go:build !windows

package ioutils

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes data to path through a pending temporary file that
// is synced and renamed over the destination.
//
// Readers never observe a partially written file: they see either the old
// content or the new content. The file is created with mode 0644.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFileAtomic("/videos/playlist.m3u", playlistContent)
func WriteFileAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pending file %s: %w", path, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
