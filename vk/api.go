package vk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiVersion  = "5.199"
	apiPageSize = 200
)

// ErrAPI reports a structured error from the VK API, most often an
// expired or underprivileged token.
var ErrAPI = errors.New("vk api error")

// APIClient lists playlist videos through the official video.get
// method. It only exists when the operator provides an access token;
// everything it returns the page scraper can also find, just with
// worse titles and dates.
type APIClient struct {
	BaseURL string
	token   string
	client  *http.Client
}

// NewAPIClient returns a client using the given access token.
func NewAPIClient(token string) *APIClient {
	return &APIClient{
		BaseURL: "https://api.vk.com",
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type apiVideoList struct {
	Response *struct {
		Count int `json:"count"`
		Items []struct {
			ID      int64  `json:"id"`
			OwnerID int64  `json:"owner_id"`
			Title   string `json:"title"`
			Date    int64  `json:"date"`
		} `json:"items"`
	} `json:"response"`
	Error *struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_msg"`
	} `json:"error"`
}

// FetchPlaylistVideos pages through the album until the API has no
// more items.
func (c *APIClient) FetchPlaylistVideos(playlist Playlist) ([]Video, error) {
	var videos []Video
	for offset := 0; ; offset += apiPageSize {
		params := url.Values{
			"owner_id":     {playlist.OwnerID},
			"album_id":     {playlist.AlbumID},
			"count":        {strconv.Itoa(apiPageSize)},
			"offset":       {strconv.Itoa(offset)},
			"access_token": {c.token},
			"v":            {apiVersion},
		}

		var payload apiVideoList
		if err := c.getJSON(c.BaseURL+"/method/video.get?"+params.Encode(), &payload); err != nil {
			return nil, err
		}
		if payload.Error != nil {
			return nil, fmt.Errorf("%w: %s (code %d)", ErrAPI, payload.Error.Message, payload.Error.Code)
		}
		if payload.Response == nil {
			return nil, fmt.Errorf("%w: response missing", ErrAPI)
		}

		for _, item := range payload.Response.Items {
			video := Video{
				ID:    fmt.Sprintf("%d_%d", item.OwnerID, item.ID),
				Title: strings.TrimSpace(item.Title),
			}
			if item.Date > 0 {
				video.Created = time.Unix(item.Date, 0).UTC().Format("2006-01-02T15:04:05Z")
			}
			videos = append(videos, video)
		}

		if len(payload.Response.Items) == 0 || len(videos) >= payload.Response.Count {
			return videos, nil
		}
	}
}

func (c *APIClient) getJSON(rawURL string, v any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call vk api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from vk api", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode vk api response: %w", err)
	}
	return nil
}
