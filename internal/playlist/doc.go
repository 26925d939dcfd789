// Package playlist writes M3U and PLS playlists listing the files of a
// download batch.
//
// The playlist is written into the download directory, so entries carry
// only file names. Writes go through ioutils.WriteFileAtomic, which means a
// player opening the playlist mid-write sees the previous version or the
// complete new one.
package playlist
