package archive

import "sort"

// MergeAudio appends scraped audio records whose URL is not already
// present. Records already in the array, including ones added by hand,
// are kept verbatim and never overwritten by newer scraped data. The
// video array is untouched. Returns the number of records added.
func (d *Document) MergeAudio(scraped []Record) int {
	seen := make(map[string]bool, len(d.Audio))
	for _, r := range d.Audio {
		seen[r.URL] = true
	}

	added := 0
	for _, r := range scraped {
		if seen[r.URL] {
			continue
		}
		d.Audio = append(d.Audio, r)
		seen[r.URL] = true
		added++
	}
	return added
}

// MergeVideo appends scraped video records whose Key is not already
// present, then re-sorts the video array newest first. The audio array
// is untouched. Returns the number of records added.
func (d *Document) MergeVideo(scraped []Record) int {
	seen := make(map[string]bool, len(d.Video))
	for _, r := range d.Video {
		seen[r.Key] = true
	}

	added := 0
	for _, r := range scraped {
		if seen[r.Key] {
			continue
		}
		d.Video = append(d.Video, r)
		seen[r.Key] = true
		added++
	}

	// Plain string comparison on ISO-8601 timestamps orders them
	// chronologically; records with no created_time land last.
	sort.SliceStable(d.Video, func(i, j int) bool {
		return d.Video[i].CreatedTime > d.Video[j].CreatedTime
	})
	return added
}
