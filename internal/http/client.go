package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTransport is returned when a request cannot be completed: the
// connection failed, the server answered with a non-200 status or the
// body could not be read or decoded.
var ErrTransport = errors.New("transport error")

const (
	// DefaultTimeout bounds every request made by a Client.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "artworker"

	// MaxDownloadBytes caps the size of a downloaded resource. Catalog
	// artwork at 1500x1500 is well below a megabyte.
	MaxDownloadBytes = 64 << 20
)

// Client wraps HTTP operations used to talk to the music catalog and to
// fetch cover art.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - JSON decoding of API responses
//   - In-memory downloads with progress tracking
//
// Every failure is wrapped with ErrTransport so callers can tell network
// problems apart from empty results.
//
// Example usage:
//
//	client := NewClient()
//
//	var resp struct{ ResultCount int `json:"resultCount"` }
//	err := client.GetJSON(ctx, "https://itunes.apple.com/search?term=animals", &resp)
//
//	artwork, err := client.DownloadBytes(ctx, artworkURL, nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the request timeout. Zero or negative values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header. An empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBytes sets the largest body DownloadBytes accepts. Zero or
// negative values keep MaxDownloadBytes.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying http.Client, e.g. with one from
// httptest.Server.Client().
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new HTTP client.
//
// Without options the client uses DefaultTimeout and DefaultUserAgent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: DefaultUserAgent,
		maxBytes:  MaxDownloadBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, -1 if unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// do performs a GET request and returns the response for a 200 OK status.
// The caller must close the body.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: HTTP %s", ErrTransport, url, resp.Status)
	}

	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Example:
//
//	data, err := client.Get(ctx, "https://example.com/image.jpg")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.DownloadBytes(ctx, url, nil)
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrTransport, url, err)
	}
	return nil
}

// DownloadBytes downloads a resource and returns its bytes.
//
// onProgress is optional and is called with (bytesWritten, totalBytes);
// totalBytes is -1 when the server does not send a Content-Length.
// Bodies larger than the client's limit, announced or actual, fail with
// ErrTransport.
//
// Example:
//
//	imageData, err := client.DownloadBytes(ctx, artworkURL, func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("%w: %s: %d bytes is too large", ErrTransport, url, resp.ContentLength)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, io.LimitReader(resp.Body, c.maxBytes+1)); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTransport, url, err)
	}
	if int64(buf.Len()) > c.maxBytes {
		return nil, fmt.Errorf("%w: %s: body is larger than %d bytes", ErrTransport, url, c.maxBytes)
	}
	return buf.Bytes(), nil
}
