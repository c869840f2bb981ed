// Package remote fetches data files from a web-hosted data directory.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "mapletrack/1.0"
)

var (
	// ErrNotFound indicates the data file does not exist at the remote URL.
	ErrNotFound = errors.New("remote: file not found")
	// ErrUnauthorized indicates the server refused access to the data directory.
	ErrUnauthorized = errors.New("remote: unauthorized")
)

// Client fetches data files relative to a base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for the given base URL. A trailing slash is
// added so file names resolve inside the directory.
func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("remote: empty base url")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	return &Client{base: u, http: &http.Client{}}, nil
}

// URL returns the absolute URL of a file name.
func (c *Client) URL(name string) string {
	return c.base.ResolveReference(&url.URL{Path: name}).String()
}

// Fetch downloads a single file. It returns ErrNotFound for a 404.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(name), nil)
	if err != nil {
		return nil, fmt.Errorf("remote: creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: fetching %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote: %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("remote: reading %s: %w", name, err)
	}
	return body, nil
}
