// Package vk discovers videos from VK playlists and video pages. The
// public pages are rendered for browsers, so the client sends browser
// headers, keeps cookies, and handles gzip itself; extraction is a
// best-effort pattern hunt over whatever HTML comes back. When an API
// token is available the official video.get endpoint replaces all of
// that with a stable JSON contract.
package vk

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client fetches VK pages the way a browser would.
type Client struct {
	client *http.Client
}

// NewClient returns a page client with a fresh cookie jar.
func NewClient() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		client: &http.Client{
			Timeout: 20 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// FetchPage returns a page's HTML. Accept-Encoding is pinned so VK
// serves the same bytes it gives browsers, which means gzip has to be
// undone by hand.
func (c *Client) FetchPage(rawURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to decompress %s: %w", rawURL, err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return string(data), nil
}

// FetchVideoMetadata loads a video's page and extracts whatever title
// and date it yields.
func (c *Client) FetchVideoMetadata(rawURL string) (Metadata, error) {
	html, err := c.FetchPage(rawURL)
	if err != nil {
		return Metadata{}, err
	}
	return ExtractMetadata(html), nil
}
