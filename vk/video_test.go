package vk

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaylistURL(t *testing.T) {
	playlist, err := ParsePlaylistURL("https://vkvideo.ru/playlist/-230491618_3")
	require.NoError(t, err)
	assert.Equal(t, "-230491618", playlist.OwnerID)
	assert.Equal(t, "3", playlist.AlbumID)
}

func TestParsePlaylistURLRejectsOtherURLs(t *testing.T) {
	_, err := ParsePlaylistURL("https://vk.com/flukiel")
	assert.ErrorIs(t, err, ErrBadPlaylistURL)
}

func TestPlaylistPageURLs(t *testing.T) {
	playlist := Playlist{OwnerID: "-230491618", AlbumID: "3"}
	original := "https://vkvideo.ru/playlist/-230491618_3"

	urls := playlist.PageURLs(original)
	assert.Equal(t, []string{
		original,
		"https://vk.com/videos-230491618?z=video-230491618_3",
		"https://vk.com/video-230491618_3",
		"https://vk.com/videos-230491618?section=playlist_3",
		"https://vk.com/videos-230491618",
	}, urls)
}

func TestPlaylistPageURLsSkipsTheOriginal(t *testing.T) {
	playlist := Playlist{OwnerID: "-230491618", AlbumID: "3"}
	original := "https://vk.com/video-230491618_3"

	urls := playlist.PageURLs(original)
	require.Len(t, urls, 4, "the original URL should not repeat as a variant")
	assert.Equal(t, original, urls[0])
}

func TestExtractVideoID(t *testing.T) {
	id, ok := ExtractVideoID("https://vk.com/video-230491618_456239017?list=abc")
	require.True(t, ok)
	assert.Equal(t, "-230491618_456239017", id)

	_, ok = ExtractVideoID("https://vk.com/flukiel")
	assert.False(t, ok)
}

func TestExtractVideoIDsBattery(t *testing.T) {
	html := `<html><body>
	<a href="/video/playlist/-230491618_3/video-230491618_456239017">Watch</a>
	<iframe src="https://vk.com/video_ext.php?oid=-230491618&amp;id=456239018&amp;hd=2"></iframe>
	<div data-video-id="-230491618_456239019"></div>
	<a href="/video-230491618_456239020?list=x">More</a>
	<script>var x = "video-230491618_456239021";</script>
	</body></html>`

	ids := ExtractVideoIDs(html)
	assert.Equal(t, []string{
		"-230491618_456239017",
		"-230491618_456239019",
		"-230491618_456239020",
		"-230491618_456239021",
		"-230491618_456239018",
	}, ids, "pattern order first, appearance order second, no duplicates")
}

func TestExtractVideoIDsForOwner(t *testing.T) {
	html := `album -230491618_3 owner video -230491618_456239017 foreign -999_456239099`

	ids := ExtractVideoIDsForOwner(html, "-230491618")
	assert.Equal(t, []string{"-230491618_456239017"}, ids,
		"short album references and foreign owners are excluded")
}

func TestFindTitleNear(t *testing.T) {
	html := `<script>var playlist = [{"id":"-1_456239099","title":"Summer Rooftop Set","duration":3600}];</script>`

	assert.Equal(t, "Summer Rooftop Set", FindTitleNear(html, "-1_456239099"))
	assert.Empty(t, FindTitleNear(html, "-1_000000000"), "unknown IDs have no window")
}

func TestFindTitleNearUnescapesJSON(t *testing.T) {
	html := `{"id":"-1_456239099","title":"Party & Friends \"Live\""}`
	assert.Equal(t, `Party & Friends "Live"`, FindTitleNear(html, "-1_456239099"))
}

func TestVideoRecord(t *testing.T) {
	video := Video{ID: "-230491618_456239017", Title: "Live From The Garden", Created: "2024-06-19T20:00:00Z"}

	record := video.Record()
	assert.Equal(t, archive.PlatformVK, record.Platform)
	assert.Equal(t, "https://vk.com/video-230491618_456239017", record.URL)
	assert.Equal(t, "https://vk.com/video_ext.php?oid=-230491618&id=456239017&lang=en", record.EmbedURL)
	assert.Equal(t, "-230491618_456239017", record.Key)
	assert.Equal(t, "2024-06-19T20:00:00Z", record.CreatedTime)
}

func TestVideoRecordPlaceholderTitle(t *testing.T) {
	record := Video{ID: "-1_2"}.Record()
	assert.Equal(t, "Video -1_2", record.Title)
}

func TestFetchPlaylistScrapesFirstWorkingPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/playlist/-230491618_3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
		<a href="/video-230491618_456239017">Opening Night</a>
		<a href="/video-230491618_456239018">Second Show</a>
		</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient()
	require.NoError(t, err)

	videos, err := client.FetchPlaylist(server.URL + "/playlist/-230491618_3")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "-230491618_456239017", videos[0].ID)
	assert.Equal(t, "Opening Night", videos[0].Title, "anchor text becomes the title")
	assert.Equal(t, "Second Show", videos[1].Title)
}

func TestFetchPlaylistAcceptsDirectVideoURL(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	videos, err := client.FetchPlaylist("https://vk.com/video-230491618_456239017")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "-230491618_456239017", videos[0].ID)
}
