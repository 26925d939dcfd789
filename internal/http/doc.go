// Package http provides the HTTP client used to fetch remote locator lists.
//
// The Client sets a User-Agent header, applies a request timeout and caps
// the size of response bodies.
//
//	client := http.NewClient(settings.UserAgent, settings.HTTPTimeoutDuration())
//	text, err := client.GetString(ctx, "https://example.com/streams.txt")
package http
