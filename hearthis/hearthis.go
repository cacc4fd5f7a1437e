// Package hearthis discovers a user's tracks on hearthis.at. The site
// has no public API, so discovery combines its podcast RSS feed with
// best-effort scraping of the profile page and its AJAX continuation
// endpoint. Page markup is not a contract; parsing failures degrade to
// fewer tracks, never to a crash.
package hearthis

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	siteURL   = "https://hearthis.at"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// Continuation pages are fetched until one adds nothing new.
	maxAjaxPages = 10
)

// Profile sections that look like track links but are not.
var skipSlugs = map[string]bool{
	"podcast":   true,
	"rss":       true,
	"live":      true,
	"following": true,
	"followers": true,
	"sets":      true,
	"groups":    true,
}

var bareDate = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

// Track is one discovered upload. Title and Created stay empty until
// something fills them; Record falls back to a slug-derived title.
type Track struct {
	User    string
	Slug    string
	Title   string
	Created string
}

// URL returns the track's canonical page URL.
func (t Track) URL() string {
	return fmt.Sprintf("%s/%s/%s/", siteURL, t.User, t.Slug)
}

// Key returns the platform-scoped identifier used for deduplication.
func (t Track) Key() string {
	return fmt.Sprintf("/%s/%s", t.User, t.Slug)
}

// EmbedURL returns the player URL for the track.
func (t Track) EmbedURL() string {
	return t.URL() + "embed/"
}

// Record converts the track to its archive form.
func (t Track) Record() archive.Record {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = slugTitle(t.Slug)
	}
	return archive.Record{
		Platform:    archive.PlatformHearthis,
		Title:       title,
		URL:         t.URL(),
		EmbedURL:    t.EmbedURL(),
		Key:         t.Key(),
		CreatedTime: t.Created,
	}
}

// Records converts a batch of tracks.
func Records(tracks []Track) []archive.Record {
	records := make([]archive.Record, 0, len(tracks))
	for _, t := range tracks {
		records = append(records, t.Record())
	}
	return records
}

// slugTitle turns "late-night-breaks-vol-2" into "Late Night Breaks
// Vol 2" for tracks whose real title was never found.
func slugTitle(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// Client scrapes hearthis.at. BaseURL is swappable for tests.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient returns a client against the live site.
func NewClient() *Client {
	return &Client{
		BaseURL: siteURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchTracks discovers tracks from the profile page, then walks the
// site's AJAX continuation endpoint until a page adds nothing new.
// Continuation failures end the walk with whatever was found so far.
func (c *Client) FetchTracks(user string) ([]Track, error) {
	doc, err := c.fetchDoc(fmt.Sprintf("%s/%s/", c.BaseURL, url.PathEscape(user)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", user, err)
	}

	seen := make(map[string]bool)
	tracks := collectTracks(doc, user, seen, nil)

	for page := 2; page <= maxAjaxPages; page++ {
		doc, err := c.fetchMorePage(user, page)
		if err != nil {
			break
		}
		before := len(tracks)
		tracks = collectTracks(doc, user, seen, tracks)
		if len(tracks) == before {
			break
		}
	}
	return tracks, nil
}

// FetchTrackDetails fetches the track's own page and fills in the
// title and publish date when the page yields them.
func (c *Client) FetchTrackDetails(t *Track) error {
	doc, err := c.fetchDoc(fmt.Sprintf("%s/%s/%s/", c.BaseURL, url.PathEscape(t.User), url.PathEscape(t.Slug)))
	if err != nil {
		return fmt.Errorf("failed to fetch track page %s: %w", t.Key(), err)
	}

	if title := pageTitle(doc); title != "" {
		t.Title = title
	}
	if created := pageDate(doc); created != "" {
		t.Created = created
	}
	return nil
}

func (c *Client) fetchDoc(rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *Client) fetchMorePage(user string, page int) (*goquery.Document, error) {
	form := url.Values{
		"user": {user},
		"page": {strconv.Itoa(page)},
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/user_ajax_more.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from continuation page %d", resp.StatusCode, page)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// collectTracks pulls tracks out of a profile page or continuation
// fragment, appending only slugs not already seen.
func collectTracks(doc *goquery.Document, user string, seen map[string]bool, tracks []Track) []Track {
	add := func(t Track) {
		if t.Slug == "" || skipSlugs[t.Slug] || seen[t.Slug] {
			return
		}
		seen[t.Slug] = true
		tracks = append(tracks, t)
	}

	// Track list items carry the richest markup.
	doc.Find("li[data-trackid]").Each(func(_ int, sel *goquery.Selection) {
		track := Track{User: user}
		if title, ok := sel.Attr("data-playlist-title"); ok {
			track.Title = strings.TrimSpace(title)
		}
		if ts, ok := sel.Attr("data-time"); ok {
			track.Created = unixDate(ts)
		}
		sel.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			owner, slug, ok := splitTrackHref(href)
			if !ok || !strings.EqualFold(owner, user) {
				return true
			}
			track.Slug = slug
			return false
		})
		add(track)
	})

	// Plain profile links catch anything the list markup missed.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		owner, slug, ok := splitTrackHref(href)
		if !ok || !strings.EqualFold(owner, user) {
			return
		}
		add(Track{
			User:  user,
			Slug:  slug,
			Title: strings.TrimSpace(sel.Text()),
		})
	})

	return tracks
}

// splitTrackHref extracts the owner and slug from a profile-relative
// or absolute track link.
func splitTrackHref(href string) (owner, slug string, ok bool) {
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", "", false
	}
	if parsed.Host != "" && parsed.Host != "hearthis.at" && parsed.Host != "www.hearthis.at" {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSuffix(title, " | hearthis.at")
	return strings.TrimSpace(title)
}

func pageDate(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if created := normalizeDate(content); created != "" {
			return created
		}
	}

	// Last resort: any bare YYYY-MM-DD in the page.
	if html, err := doc.Html(); err == nil {
		if m := bareDate.FindStringSubmatch(html); m != nil {
			return m[1] + "T00:00:00Z"
		}
	}
	return ""
}

func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	if m := bareDate.FindStringSubmatch(raw); m != nil {
		return m[1] + "T00:00:00Z"
	}
	return ""
}

func unixDate(raw string) string {
	sec, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02T15:04:05Z")
}

// MergeTracks combines two discovery passes, keeping the first track
// seen for each key.
func MergeTracks(primary, extra []Track) []Track {
	seen := make(map[string]bool, len(primary))
	merged := make([]Track, 0, len(primary)+len(extra))
	for _, t := range primary {
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		merged = append(merged, t)
	}
	for _, t := range extra {
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		merged = append(merged, t)
	}
	return merged
}
