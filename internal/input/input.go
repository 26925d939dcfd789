// Package input collects the ordered list of stream locators for a run.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrNoLocators is returned when no locator was supplied by any source.
var ErrNoLocators = errors.New("no stream locators given")

// StdinSource is the source name that reads locators from standard input.
const StdinSource = "-"

// urlSeparator matches a comma that starts another URL on the same line.
// Commas inside a URL (query strings, path segments) are left alone.
var urlSeparator = regexp.MustCompile(`,\s*[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Fetcher retrieves a remote locator list.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Parse extracts locators from text, preserving their order.
//
// Locators are separated by newlines. A line may also hold several URLs
// separated by commas. Blank lines and lines starting with '#' are skipped,
// which also drops the #EXTM3U header of a pasted playlist.
//
// Example:
//
//	Parse("# lectures\nhttps://a/1.m3u8, https://a/2.m3u8\n\n/data/3.m3u8")
//	// []string{"https://a/1.m3u8", "https://a/2.m3u8", "/data/3.m3u8"}
func Parse(text string) []string {
	var locators []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range splitURLs(line) {
			if part = strings.TrimSpace(part); part != "" {
				locators = append(locators, part)
			}
		}
	}
	return locators
}

func splitURLs(line string) []string {
	matches := urlSeparator.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return []string{line}
	}
	parts := make([]string, 0, len(matches)+1)
	start := 0
	for _, m := range matches {
		parts = append(parts, line[start:m[0]])
		// skip the comma; the scheme belongs to the next URL
		start = m[0] + 1
	}
	return append(parts, line[start:])
}

// Load reads locators from source.
//
// source may be "-" for stdin, an http(s) URL fetched through fetcher, or
// a file path.
func Load(ctx context.Context, source string, stdin io.Reader, fetcher Fetcher) ([]string, error) {
	switch {
	case source == StdinSource:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read locators from stdin: %w", err)
		}
		return Parse(string(data)), nil

	case isRemote(source):
		if fetcher == nil {
			return nil, fmt.Errorf("fetch locators from %s: no http client", source)
		}
		text, err := fetcher.GetString(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch locators from %s: %w", source, err)
		}
		return Parse(text), nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read locators from %s: %w", source, err)
		}
		return Parse(string(data)), nil
	}
}

// Collect merges positional arguments with the locators loaded from
// source. Arguments come first. An empty source is skipped.
func Collect(ctx context.Context, args []string, source string, stdin io.Reader, fetcher Fetcher) ([]string, error) {
	locators := Parse(strings.Join(args, "\n"))

	if source != "" {
		loaded, err := Load(ctx, source, stdin, fetcher)
		if err != nil {
			return nil, err
		}
		locators = append(locators, loaded...)
	}

	if len(locators) == 0 {
		return nil, ErrNoLocators
	}
	return locators, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
