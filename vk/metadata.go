package vk

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is what a video page yields. Either field may be empty.
type Metadata struct {
	Title   string
	Created string
}

var (
	jsonDatePattern     = regexp.MustCompile(`"(?:date|created_time|published_time|date_published|date_added|added_date)"\s*:\s*"([^"]+)"`)
	jsonUnixDatePattern = regexp.MustCompile(`"(?:date|created_time|published_time|date_published|date_added|added_date)"\s*:\s*(\d{10,13})\b`)
	isoDatePattern      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:?\d{2})?`)
	bareDatePattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

// ExtractMetadata pulls a best-effort title and publish date out of a
// video page. Pages behind consent walls or login redirects yield
// nothing rather than garbage.
func ExtractMetadata(html string) Metadata {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc = nil
	}
	return Metadata{
		Title:   extractTitle(doc, html),
		Created: extractDate(doc, html),
	}
}

func extractTitle(doc *goquery.Document, html string) string {
	var candidates []string
	if doc != nil {
		candidates = append(candidates, doc.Find("title").First().Text())
		if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			candidates = append(candidates, v)
		}
		if v, ok := doc.Find(`meta[name="title"]`).Attr("content"); ok {
			candidates = append(candidates, v)
		}
	}
	for _, m := range jsonTitlePattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}
	if doc != nil {
		candidates = append(candidates, doc.Find("h1").First().Text())
	}

	for _, candidate := range candidates {
		if title := cleanTitle(candidate); title != "" {
			return title
		}
	}
	return ""
}

// cleanTitle strips site branding and rejects the generic titles VK
// serves when a page did not really render.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if unquoted, err := strconv.Unquote(`"` + title + `"`); err == nil {
		title = unquoted
	}
	for _, suffix := range []string{" | VK", " | ВКонтакте"} {
		title = strings.TrimSuffix(title, suffix)
	}
	title = strings.TrimSpace(strings.TrimSuffix(title, " Video"))

	if utf8.RuneCountInString(title) <= 3 || strings.Contains(title, "Video") {
		return ""
	}
	return title
}

func extractDate(doc *goquery.Document, html string) string {
	var candidates []string
	if doc != nil {
		for _, sel := range []string{
			`meta[property="article:published_time"]`,
			`meta[property="video:release_date"]`,
			`meta[name="date"]`,
		} {
			if v, ok := doc.Find(sel).Attr("content"); ok {
				candidates = append(candidates, v)
			}
		}
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			candidates = append(candidates, v)
		}
	}
	for _, m := range jsonDatePattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range jsonUnixDatePattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}
	if m := isoDatePattern.FindString(html); m != "" {
		candidates = append(candidates, m)
	}
	if m := bareDatePattern.FindString(html); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		if created := ParseDate(candidate); created != "" {
			return created
		}
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

// ParseDate normalizes the date shapes VK pages use to a canonical
// "2006-01-02T15:04:05Z". Unix stamps may be seconds or milliseconds.
// Unknown shapes come back empty.
func ParseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if isUnixDigits(raw) {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			if len(raw) == 13 {
				sec /= 1000
			}
			return time.Unix(sec, 0).UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	return ""
}

func isUnixDigits(raw string) bool {
	if len(raw) != 10 && len(raw) != 13 {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
