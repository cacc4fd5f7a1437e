package hearthis

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>FlukieL on hearthis.at</title>
    <link>https://hearthis.at/flukiel/</link>
    <item>
      <title>Deep Winter Session</title>
      <link>https://hearthis.at/flukiel/deep-winter-session/</link>
      <pubDate>Mon, 15 Jan 2024 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Old One</title>
      <link>https://hearthis.at/flukiel/old-one/</link>
      <pubDate>Tue, 02 May 2023 08:30:00 +0000</pubDate>
    </item>
    <item>
      <title>Someone Else</title>
      <link>https://hearthis.at/otherdj/not-ours/</link>
      <pubDate>Tue, 02 May 2023 08:30:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestFetchPodcast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/flukiel/podcast/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, podcastRSS)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient()
	client.BaseURL = server.URL

	tracks, err := client.FetchPodcast("flukiel")
	require.NoError(t, err)
	require.Len(t, tracks, 2, "feed items for other users are skipped")

	assert.Equal(t, "deep-winter-session", tracks[0].Slug)
	assert.Equal(t, "Deep Winter Session", tracks[0].Title)
	assert.Equal(t, "2024-01-15T10:00:00Z", tracks[0].Created)
	assert.Equal(t, "old-one", tracks[1].Slug)
	assert.Equal(t, "2023-05-02T08:30:00Z", tracks[1].Created)
}

func TestFetchPodcastUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient()
	client.BaseURL = server.URL

	_, err := client.FetchPodcast("flukiel")
	assert.Error(t, err, "a dead feed should surface to the caller")
}
