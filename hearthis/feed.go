package hearthis

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FetchPodcast reads the user's podcast RSS feed, the closest thing
// hearthis.at has to a stable listing. Tracks from here carry real
// titles and publish dates, so callers should prefer them over
// scraped ones.
func (c *Client) FetchPodcast(user string) ([]Track, error) {
	feedURL := fmt.Sprintf("%s/%s/podcast/", c.BaseURL, url.PathEscape(user))

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse podcast feed for %s: %w", user, err)
	}

	var tracks []Track
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		owner, slug, ok := splitTrackHref(item.Link)
		if !ok || !strings.EqualFold(owner, user) || skipSlugs[slug] {
			continue
		}

		track := Track{
			User:  user,
			Slug:  slug,
			Title: strings.TrimSpace(item.Title),
		}
		if item.PublishedParsed != nil {
			track.Created = item.PublishedParsed.UTC().Format("2006-01-02T15:04:05Z")
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
