// Package backfill repairs sparse video metadata in the archive.
// Playlist scrapes often land with placeholder titles and no dates;
// a backfill pass refetches each video's own page and fills in what
// it can, without ever touching a field it has nothing better for.
package backfill

import "github.com/FlukieL/orangeterry/archive"

// Metadata is a fetched page's usable yield. Either field may be
// empty.
type Metadata struct {
	Title   string
	Created string
}

// Fetcher loads a video page and extracts its metadata.
type Fetcher interface {
	FetchVideoMetadata(url string) (Metadata, error)
}

// Result tallies one backfill pass. Pages that fetched but yielded
// nothing count separately from pages that could not be fetched.
type Result struct {
	Scanned       int
	TitlesUpdated int
	DatesUpdated  int
	FetchFailures int
	NoMetadata    int
}

// Changed reports whether the pass modified the document.
func (r Result) Changed() bool {
	return r.TitlesUpdated > 0 || r.DatesUpdated > 0
}

// Service walks the archive's VK video records and fills in missing
// or stale titles and dates.
type Service struct {
	fetcher Fetcher

	// Logf receives per-record progress when set.
	Logf func(format string, v ...any)
}

// New returns a service using the given fetcher.
func New(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Run updates VK records in place and reports what changed. A record
// is only mutated when a fetched field is non-empty and differs from
// the stored value; failures skip the record and move on.
func (s *Service) Run(doc *archive.Document) Result {
	var result Result
	for i := range doc.Video {
		record := &doc.Video[i]
		if record.Platform != archive.PlatformVK {
			continue
		}
		result.Scanned++

		md, err := s.lookup(record)
		if err != nil {
			result.FetchFailures++
			s.logf("failed to fetch %s: %v", record.Key, err)
			continue
		}
		if md.Title == "" && md.Created == "" {
			result.NoMetadata++
			s.logf("no metadata found for %s", record.Key)
			continue
		}

		if md.Title != "" && md.Title != record.Title {
			s.logf("title for %s: %q -> %q", record.Key, record.Title, md.Title)
			record.Title = md.Title
			result.TitlesUpdated++
		}
		if md.Created != "" && md.Created != record.CreatedTime {
			s.logf("date for %s: %q -> %q", record.Key, record.CreatedTime, md.Created)
			record.CreatedTime = md.Created
			result.DatesUpdated++
		}
	}
	return result
}

// lookup tries the stored URL first, then the canonical video URL
// built from the record's key. A yield from any page wins; fetching
// every candidate without a yield is "no metadata", and only a record
// whose every candidate failed counts as a fetch failure.
func (s *Service) lookup(record *archive.Record) (Metadata, error) {
	urls := make([]string, 0, 2)
	if record.URL != "" {
		urls = append(urls, record.URL)
	}
	if record.Key != "" {
		if canonical := "https://vk.com/video" + record.Key; canonical != record.URL {
			urls = append(urls, canonical)
		}
	}

	fetched := false
	var lastErr error
	for _, u := range urls {
		md, err := s.fetcher.FetchVideoMetadata(u)
		if err != nil {
			lastErr = err
			continue
		}
		fetched = true
		if md.Title != "" || md.Created != "" {
			return md, nil
		}
	}
	if fetched {
		return Metadata{}, nil
	}
	return Metadata{}, lastErr
}

func (s *Service) logf(format string, v ...any) {
	if s.Logf != nil {
		s.Logf(format, v...)
	}
}
