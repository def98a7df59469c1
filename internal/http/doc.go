// Package http provides the HTTP client used for catalog API requests and
// cover art downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - JSON API responses
//   - In-memory downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.WithTimeout(10 * time.Second))
//
//	// Decode an API response
//	var page searchResponse
//	err := client.GetJSON(ctx, searchURL, &page)
//
//	// Download cover art with a progress callback
//	data, err := client.DownloadBytes(ctx, artworkURL, func(written, total int64) {
//	    fmt.Printf("%d bytes\n", written)
//	})
//
// # Errors
//
// All failures wrap ErrTransport:
//
//	if errors.Is(err, http.ErrTransport) {
//	    // network problem, not an empty result
//	}
package http
