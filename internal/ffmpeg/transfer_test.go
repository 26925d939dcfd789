package ffmpeg

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunner_Args(t *testing.T) {
	r := NewRunner(RunnerConfig{Bin: "ffmpeg", AllowedExtensions: "ALL"})
	args := r.Args("https://example.com/v.m3u8", "L11.mp4")

	assert.Equal(t, "L11.mp4", args[len(args)-1], "output path must be last")
	for _, pair := range [][2]string{
		{"-progress", "pipe:1"},
		{"-loglevel", "error"},
		{"-c", "copy"},
		{"-i", "https://example.com/v.m3u8"},
		{"-allowed_extensions", "ALL"},
	} {
		i := slices.Index(args, pair[0])
		if assert.GreaterOrEqual(t, i, 0, "missing %s", pair[0]) {
			assert.Equal(t, pair[1], args[i+1])
		}
	}
	assert.Contains(t, args, "-y")
	assert.Contains(t, args, "-nostats")
	assert.Less(t, slices.Index(args, "-allowed_extensions"), slices.Index(args, "-i"),
		"demuxer options must precede the input")
}

func TestRunner_ArgsWithoutAllowedExtensions(t *testing.T) {
	args := NewRunner(RunnerConfig{}).Args("in.m3u8", "out.mp4")
	assert.NotContains(t, args, "-allowed_extensions")
}

func TestTailBuffer(t *testing.T) {
	b := &tailBuffer{max: 8}
	_, _ = b.Write([]byte("0123"))
	_, _ = b.Write([]byte("456789"))
	assert.Equal(t, "23456789", b.String())

	_, _ = b.Write([]byte(strings.Repeat("x", 20)))
	assert.Equal(t, strings.Repeat("x", 8), b.String())
}
