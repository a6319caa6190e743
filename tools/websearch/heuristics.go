package websearch

import (
	"strings"

	"github.com/plagness/NikaBot/pkg/search"
)

// Regions
const (
	RegionRussian = "ru-ru"
	RegionDefault = "us-en"
)

var (
	weekKeywords  = []string{"последний", "последние", "неделя", "week", "recent"}
	monthKeywords = []string{"месяц", "month"}
)

// DetectRegion returns RegionRussian if the query has Cyrillic letters
func DetectRegion(query string) string {
	for _, r := range query {
		if (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё' {
			return RegionRussian
		}
	}
	return RegionDefault
}

// DetectTimeLimit returns the freshness filter requested by the query wording.
// Week keywords take precedence over month ones.
func DetectTimeLimit(query string) string {
	q := strings.ToLower(query)
	for _, kw := range weekKeywords {
		if strings.Contains(q, kw) {
			return search.TimeLimitWeek
		}
	}
	for _, kw := range monthKeywords {
		if strings.Contains(q, kw) {
			return search.TimeLimitMonth
		}
	}
	return search.TimeLimitNone
}

// NoTitle is used for results without title
const NoTitle = "No Title"

// Dedup drops results without URL and repeated URLs, keeping the first seen.
func Dedup(items []search.Item) []PageDigest {
	seen := make(map[string]struct{}, len(items))
	list := make([]PageDigest, 0, len(items))
	for _, it := range items {
		if it.URL == "" {
			continue
		}
		if _, ok := seen[it.URL]; ok {
			continue
		}
		seen[it.URL] = struct{}{}

		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = NoTitle
		}
		list = append(list, PageDigest{Title: title, URL: it.URL})
	}
	return list
}
