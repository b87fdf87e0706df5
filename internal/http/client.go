package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

// DefaultUserAgent is the browser identity presented by default. The
// vendor's API rejects obviously non-browser clients, so this must look
// like a current desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// browserHeaders is the ambient header set a desktop Chrome sends on
// navigation. Individual requests may override any of these.
var browserHeaders = map[string]string{
	"Accept":                      "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
	"Accept-Language":             "en-US,en;q=0.9",
	"DNT":                         "1",
	"Upgrade-Insecure-Requests":   "1",
	"Sec-Fetch-Dest":              "document",
	"Sec-Fetch-Mode":              "navigate",
	"Sec-Fetch-Site":              "none",
	"Sec-Fetch-User":              "?1",
	"sec-ch-ua":                   `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
	"sec-ch-ua-mobile":            "?0",
	"sec-ch-ua-platform":          `"Windows"`,
	"sec-ch-ua-platform-version":  `"15.0.0"`,
	"sec-ch-ua-arch":              `"x86"`,
	"sec-ch-ua-bitness":           `"64"`,
	"sec-ch-ua-model":             `""`,
	"sec-ch-ua-full-version":      `"120.0.6099.109"`,
	"viewport-width":              "1920",
	"sec-ch-viewport-width":       "1920",
	"sec-ch-dpr":                  "1",
}

// Client wraps HTTP operations with the browser-like configuration the
// vendor API expects.
//
// Client provides:
//   - A Chrome-shaped default header set and User-Agent
//   - A cookie jar so the warmed session survives across calls
//   - Redirects disabled (the vendor's redirects leak the session)
//   - File download with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	body, status, err := client.Get(ctx, url, map[string]string{
//	    "Referer": landingPage,
//	    "Accept":  "application/json, text/plain, */*",
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a browser-shaped HTTP client with the given
// per-request timeout.
func NewClient(timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// Negative when the server did not report a length.
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

// Get performs a GET request and returns the response body and status
// code.
//
// The request carries the full browser header set; entries in headers
// override the defaults (including User-Agent). Unlike a plain status
// check, the body is returned even on non-2xx responses, because the
// vendor API reports errors as JSON bodies on error statuses.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	c.applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// GetString performs a GET request and returns the response body as a
// string along with the status code.
func (c *Client) GetString(ctx context.Context, url string, headers map[string]string) (string, int, error) {
	body, status, err := c.Get(ctx, url, headers)
	if err != nil {
		return "", status, err
	}
	return string(body), status, nil
}

// Visit performs a GET request and discards the response. Used to warm
// the session the way a browser visiting the landing page would; the
// response body and status are deliberately ignored.
func (c *Client) Visit(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req, nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// GetFileSize returns the size of a file at the given URL via HEAD
// request. Returns an error if the server doesn't report a
// Content-Length.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	c.applyHeaders(req, nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile downloads a file to the specified path with optional
// progress callback.
//
// The file is created (or truncated if it exists) and the content is
// streamed directly to disk, avoiding loading the entire file into
// memory.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req, nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err = io.Copy(writer, resp.Body); err != nil {
		return err
	}
	return file.Sync()
}

func (c *Client) applyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
