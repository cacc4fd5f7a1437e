package archive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentUnmarshalWellFormed(t *testing.T) {
	raw := `{
	  "audio": [
	    {"platform": "mixcloud", "title": "Show 1", "url": "https://www.mixcloud.com/FlukieL/show-1/", "embedUrl": "https://www.mixcloud.com/widget/iframe/?feed=x", "key": "/FlukieL/show-1/", "created_time": "2024-03-01T10:00:00Z", "play_count": 12, "listener_count": 9, "favorite_count": 1, "repost_count": 0}
	  ],
	  "video": [
	    {"platform": "vk", "title": "Live set", "url": "https://vk.com/video-230491618_456239017", "embedUrl": "https://vk.com/video_ext.php?oid=-230491618&id=456239017&lang=en", "key": "-230491618_456239017", "created_time": "2025-01-15T18:30:00Z", "play_count": 0, "listener_count": 0, "favorite_count": 0, "repost_count": 0}
	  ]
	}`

	var doc Document
	err := json.Unmarshal([]byte(raw), &doc)
	require.NoError(t, err, "well-formed document should unmarshal")

	require.Len(t, doc.Audio, 1)
	require.Len(t, doc.Video, 1)
	assert.Equal(t, PlatformMixcloud, doc.Audio[0].Platform)
	assert.Equal(t, "Show 1", doc.Audio[0].Title)
	assert.Equal(t, 12, doc.Audio[0].PlayCount)
	assert.Equal(t, "-230491618_456239017", doc.Video[0].Key)
	assert.Equal(t, "2025-01-15T18:30:00Z", doc.Video[0].CreatedTime)
}

// Hand-edited documents show up with missing, null, or wrongly typed
// array fields; each such field must read as empty, never as an error.
func TestDocumentUnmarshalToleratesDamagedFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"null arrays", `{"audio": null, "video": null}`},
		{"video is a number", `{"audio": [], "video": 42}`},
		{"audio is a string", `{"audio": "oops", "video": []}`},
		{"video is an object", `{"audio": [], "video": {"key": "x"}}`},
		{"unknown extra field", `{"audio": [], "video": [], "stats": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			err := json.Unmarshal([]byte(tt.raw), &doc)
			require.NoError(t, err, "damaged fields should not fail the decode")
			assert.NotNil(t, doc.Audio, "audio should decode as an array")
			assert.NotNil(t, doc.Video, "video should decode as an array")
		})
	}
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`[1, 2, 3]`), &doc)
	assert.Error(t, err, "a document that is not an object is corrupt")
}

func TestRecordCountersAlwaysSerialized(t *testing.T) {
	data, err := json.Marshal(Record{Platform: PlatformHearthis, URL: "https://hearthis.at/flukiel/mix/"})
	require.NoError(t, err)

	for _, key := range []string{"play_count", "listener_count", "favorite_count", "repost_count"} {
		assert.Contains(t, string(data), `"`+key+`":0`, "zero counters must still appear in output")
	}
}

func TestRecordFieldNamesMatchSiteSchema(t *testing.T) {
	data, err := json.Marshal(Record{EmbedURL: "https://example.com/embed", CreatedTime: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)

	// The front end reads these exact key spellings.
	assert.Contains(t, string(data), `"embedUrl"`)
	assert.Contains(t, string(data), `"created_time"`)
}
