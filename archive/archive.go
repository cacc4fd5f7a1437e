// Package archive manages the flat JSON document that records every
// audio mix and video the site knows about. All maintenance programs
// funnel their results through this package.
package archive

import "encoding/json"

// Platforms a record can originate from.
const (
	PlatformMixcloud = "mixcloud"
	PlatformHearthis = "hearthis"
	PlatformVK       = "vk"
)

// Record is one archived upload, shaped exactly as the site's front
// end consumes it. CreatedTime is ISO-8601 or empty when unknown; the
// counters default to zero and are always serialized.
type Record struct {
	Platform      string `json:"platform"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	EmbedURL      string `json:"embedUrl"`
	Key           string `json:"key"`
	CreatedTime   string `json:"created_time"`
	PlayCount     int    `json:"play_count"`
	ListenerCount int    `json:"listener_count"`
	FavoriteCount int    `json:"favorite_count"`
	RepostCount   int    `json:"repost_count"`
}

// Document is the whole archive store.
type Document struct {
	Audio []Record `json:"audio"`
	Video []Record `json:"video"`
}

// NewDocument returns an empty document with both arrays present.
func NewDocument() *Document {
	return &Document{
		Audio: []Record{},
		Video: []Record{},
	}
}

// UnmarshalJSON reads each array field on its own: a field that is
// missing, null, or not an array of records decodes as empty rather
// than failing the whole document. Hand-edited files stay loadable.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Audio json.RawMessage `json:"audio"`
		Video json.RawMessage `json:"video"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Audio = decodeRecords(raw.Audio)
	d.Video = decodeRecords(raw.Video)
	return nil
}

func decodeRecords(data json.RawMessage) []Record {
	var records []Record
	if len(data) == 0 || json.Unmarshal(data, &records) != nil || records == nil {
		return []Record{}
	}
	return records
}

// normalize makes sure both arrays serialize as [] rather than null.
func (d *Document) normalize() {
	if d.Audio == nil {
		d.Audio = []Record{}
	}
	if d.Video == nil {
		d.Video = []Record{}
	}
}
