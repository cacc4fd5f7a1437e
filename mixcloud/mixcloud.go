// Package mixcloud fetches a user's public uploads from the Mixcloud
// REST API and shapes them into archive records.
package mixcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/FlukieL/orangeterry/archive"
)

const userAgent = "Mozilla/5.0 (compatible; orangeterry/1.0)"

// ErrNotFound reports a username the API does not know.
var ErrNotFound = errors.New("mixcloud user not found")

// Client talks to the Mixcloud API. BaseURL is swappable for tests.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient returns a client against the public API.
func NewClient() *Client {
	return &Client{
		BaseURL: "https://api.mixcloud.com",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// User is the slice of the profile payload the tooling cares about.
type User struct {
	Name           string `json:"name"`
	Username       string `json:"username"`
	CloudcastCount int    `json:"cloudcast_count"`
}

// Cloudcast is one upload as the API returns it.
type Cloudcast struct {
	Key           string `json:"key"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	CreatedTime   string `json:"created_time"`
	PlayCount     int    `json:"play_count"`
	ListenerCount int    `json:"listener_count"`
	FavoriteCount int    `json:"favorite_count"`
	RepostCount   int    `json:"repost_count"`
}

type cloudcastPage struct {
	Data   []Cloudcast `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// FetchUser checks that the account exists and returns its profile.
func (c *Client) FetchUser(username string) (*User, error) {
	var user User
	if err := c.getJSON(fmt.Sprintf("%s/%s/", c.BaseURL, url.PathEscape(username)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchCloudcasts returns every upload for the account, following the
// API's paging links until they run out.
func (c *Client) FetchCloudcasts(username string) ([]Cloudcast, error) {
	pageURL := fmt.Sprintf("%s/%s/cloudcasts/", c.BaseURL, url.PathEscape(username))

	var casts []Cloudcast
	for pageURL != "" {
		var page cloudcastPage
		if err := c.getJSON(pageURL, &page); err != nil {
			return nil, err
		}
		casts = append(casts, page.Data...)
		pageURL = page.Paging.Next
	}
	return casts, nil
}

func (c *Client) getJSON(rawURL string, v any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return nil
}

// EmbedURL returns the widget iframe URL for a cloudcast page URL.
func EmbedURL(castURL string) string {
	return "https://www.mixcloud.com/widget/iframe/?feed=" + url.QueryEscape(castURL)
}

// Record converts a cloudcast to its archive form.
func (c Cloudcast) Record() archive.Record {
	title := c.Name
	if title == "" {
		title = "Untitled"
	}
	return archive.Record{
		Platform:      archive.PlatformMixcloud,
		Title:         title,
		URL:           c.URL,
		EmbedURL:      EmbedURL(c.URL),
		Key:           c.Key,
		CreatedTime:   c.CreatedTime,
		PlayCount:     c.PlayCount,
		ListenerCount: c.ListenerCount,
		FavoriteCount: c.FavoriteCount,
		RepostCount:   c.RepostCount,
	}
}

// Records converts a batch of cloudcasts.
func Records(casts []Cloudcast) []archive.Record {
	records := make([]archive.Record, 0, len(casts))
	for _, c := range casts {
		records = append(records, c.Record())
	}
	return records
}
