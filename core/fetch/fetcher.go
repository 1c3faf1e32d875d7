// Package fetch implements the Fetcher and Downloader interfaces.
// One HTTP client serves both page fetches and image downloads.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atollk/geoguessr-scripts/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "geoguessr-scripts/1.0 (+https://github.com/atollk/geoguessr-scripts)"
)

// Client fetches pages and downloads media via HTTP.
type Client struct {
	client *http.Client
}

// New creates a Client with a sensible timeout.
func New() *Client {
	return &Client{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves the HTML content of the given URL.
func (c *Client) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	body, status, err := c.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	return &core.FetchResult{
		URL:        url,
		StatusCode: status,
		HTML:       string(body),
	}, nil
}

// Download retrieves the raw bytes of the given URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.get(ctx, url, "*/*")
	return body, err
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
