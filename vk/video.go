package vk

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrBadPlaylistURL reports a URL with no playlist or video
	// reference in it.
	ErrBadPlaylistURL = errors.New("no playlist reference in URL")

	// ErrNoVideos reports a playlist whose pages yielded no video IDs.
	ErrNoVideos = errors.New("no videos found")
)

var (
	playlistPattern = regexp.MustCompile(`playlist/(-?\d+)_(\d+)`)
	videoURLPattern = regexp.MustCompile(`video(-?\d+_\d+)`)

	// The pattern battery mirrors the shapes VK embeds video IDs in:
	// playlist-scoped links, the legacy embed endpoint, data
	// attributes, plain hrefs, and bare tokens in script blobs.
	playlistVideoPattern = regexp.MustCompile(`/playlist/-?\d+_\d+/video(-?\d+_\d+)`)
	videoExtPattern      = regexp.MustCompile(`video_ext\.php\?oid=(-?\d+)(?:&|&amp;)id=(\d+)`)
	dataVideoIDPattern   = regexp.MustCompile(`data-video-id=["'](-?\d+_\d+)["']`)
	hrefVideoPattern     = regexp.MustCompile(`href=["'][^"']*?/video(-?\d+_\d+)`)
	bareVideoPattern     = regexp.MustCompile(`\bvideo(-?\d+_\d+)`)

	idPairPattern    = regexp.MustCompile(`(-?\d+)_(\d{6,})\b`)
	jsonTitlePattern = regexp.MustCompile(`"title"\s*:\s*"((?:[^"\\]|\\.)+)"`)
)

// Video is one discovered upload, identified by "<owner>_<id>".
type Video struct {
	ID      string
	Title   string
	Created string
}

// Record converts the video to its archive form.
func (v Video) Record() archive.Record {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = "Video " + v.ID
	}
	oid, vid, _ := strings.Cut(v.ID, "_")
	return archive.Record{
		Platform:    archive.PlatformVK,
		Title:       title,
		URL:         "https://vk.com/video" + v.ID,
		EmbedURL:    fmt.Sprintf("https://vk.com/video_ext.php?oid=%s&id=%s&lang=en", oid, vid),
		Key:         v.ID,
		CreatedTime: v.Created,
	}
}

// Records converts a batch of videos.
func Records(videos []Video) []archive.Record {
	records := make([]archive.Record, 0, len(videos))
	for _, v := range videos {
		records = append(records, v.Record())
	}
	return records
}

// Playlist identifies a video album by its owner and album numbers.
type Playlist struct {
	OwnerID string
	AlbumID string
}

// ParsePlaylistURL pulls the playlist reference out of a URL.
func ParsePlaylistURL(rawURL string) (Playlist, error) {
	m := playlistPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Playlist{}, fmt.Errorf("%w: %s", ErrBadPlaylistURL, rawURL)
	}
	return Playlist{OwnerID: m[1], AlbumID: m[2]}, nil
}

// PageURLs returns the page variants worth trying for the playlist,
// starting with the URL the caller gave. VK serves the same albums
// under several hosts and path layouts depending on region and login
// state, down to the owner's bare video page as a last resort.
func (p Playlist) PageURLs(original string) []string {
	urls := []string{original}
	for _, u := range []string{
		fmt.Sprintf("https://vk.com/videos%s?z=video%s_%s", p.OwnerID, p.OwnerID, p.AlbumID),
		fmt.Sprintf("https://vk.com/video%s_%s", p.OwnerID, p.AlbumID),
		fmt.Sprintf("https://vk.com/videos%s?section=playlist_%s", p.OwnerID, p.AlbumID),
		fmt.Sprintf("https://vk.com/videos%s", p.OwnerID),
	} {
		if u != original {
			urls = append(urls, u)
		}
	}
	return urls
}

// ExtractVideoID pulls a single video reference out of a URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractVideoIDs harvests video IDs from a page, in pattern order
// then first-appearance order, without duplicates.
func ExtractVideoIDs(html string) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, pattern := range []*regexp.Regexp{playlistVideoPattern, dataVideoIDPattern, hrefVideoPattern, bareVideoPattern} {
		for _, m := range pattern.FindAllStringSubmatch(html, -1) {
			add(m[1])
		}
	}
	for _, m := range videoExtPattern.FindAllStringSubmatch(html, -1) {
		add(m[1] + "_" + m[2])
	}
	return ids
}

// ExtractVideoIDsForOwner is the broad sweep used when the battery
// finds nothing: any <owner>_<number> pair belonging to the playlist
// owner. Requiring six digits in the video number keeps album and
// section references out.
func ExtractVideoIDsForOwner(html, ownerID string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range idPairPattern.FindAllStringSubmatch(html, -1) {
		if m[1] != ownerID {
			continue
		}
		id := m[1] + "_" + m[2]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// FindTitleNear looks for a JSON title literal within a window around
// the video ID's first occurrence, the way playlist pages inline their
// metadata.
func FindTitleNear(html, id string) string {
	idx := strings.Index(html, id)
	if idx < 0 {
		return ""
	}
	window := html[max(0, idx-1000):min(len(html), idx+1000)]

	for _, m := range jsonTitlePattern.FindAllStringSubmatch(window, -1) {
		title := m[1]
		if unquoted, err := strconv.Unquote(`"` + title + `"`); err == nil {
			title = unquoted
		}
		title = strings.TrimSpace(title)
		if len(title) >= 3 && len(title) <= 200 {
			return title
		}
	}
	return ""
}

// FetchPlaylist discovers the videos in a playlist URL. A URL that
// references a single video instead of a playlist yields that video.
func (c *Client) FetchPlaylist(rawURL string) ([]Video, error) {
	playlist, err := ParsePlaylistURL(rawURL)
	if err != nil {
		if id, ok := ExtractVideoID(rawURL); ok {
			return []Video{{ID: id}}, nil
		}
		return nil, err
	}

	var lastErr error
	for _, pageURL := range playlist.PageURLs(rawURL) {
		html, err := c.FetchPage(pageURL)
		if err != nil {
			lastErr = err
			continue
		}

		ids := ExtractVideoIDs(html)
		if len(ids) == 0 {
			ids = ExtractVideoIDsForOwner(html, playlist.OwnerID)
		}
		if len(ids) == 0 {
			lastErr = fmt.Errorf("%w at %s", ErrNoVideos, pageURL)
			continue
		}
		return buildVideos(html, ids), nil
	}
	return nil, fmt.Errorf("failed to fetch playlist %s_%s: %w", playlist.OwnerID, playlist.AlbumID, lastErr)
}

// buildVideos pairs harvested IDs with whatever titles the page
// offers: link text on anchors pointing at the video, then inline
// JSON near the ID.
func buildVideos(html string, ids []string) []Video {
	anchorTitles := make(map[string]string)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find(`a[href*="video"]`).Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			id, ok := ExtractVideoID(href)
			if !ok || anchorTitles[id] != "" {
				return
			}
			text := strings.Join(strings.Fields(sel.Text()), " ")
			if len(text) >= 3 && len(text) <= 200 {
				anchorTitles[id] = text
			}
		})
	}

	videos := make([]Video, 0, len(ids))
	for _, id := range ids {
		title := anchorTitles[id]
		if title == "" {
			title = FindTitleNear(html, id)
		}
		videos = append(videos, Video{ID: id, Title: title})
	}
	return videos
}
