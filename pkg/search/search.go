// Package search defines the web search backend abstraction.
package search

import (
	"context"
	"strings"
)

//go:generate mockgen -source=search.go -destination=../../mocks/mocksearch/search_mock.gen.go -package mocksearch

// SafeSearch levels
const (
	SafeSearchOn       = "on"
	SafeSearchModerate = "moderate"
	SafeSearchOff      = "off"
	// SafeSearchStrict is accepted as SafeSearchOn
	SafeSearchStrict = "strict"
)

// Time limits
const (
	TimeLimitNone  = ""
	TimeLimitDay   = "d"
	TimeLimitWeek  = "w"
	TimeLimitMonth = "m"
	TimeLimitYear  = "y"
)

// Query specifies the search request
type Query struct {
	Keywords string
	// Region is a locale code, for example "ru-ru" or "us-en"
	Region     string
	SafeSearch string
	// TimeLimit is one of d, w, m, y or empty for no limit
	TimeLimit  string
	MaxResults int
}

// Item is a single search hit
type Item struct {
	Title   string
	URL     string
	Snippet string
}

// Backend performs text web searches
type Backend interface {
	// Name returns the backend name used in logs and metrics
	Name() string
	// Search returns items in relevance order, at most q.MaxResults.
	// Errors are wrapped with ErrTransport or ErrBackend.
	Search(ctx context.Context, q *Query) ([]Item, error)
}

// Limit returns at most max items, max <= 0 means no limit
func Limit(items []Item, max int) []Item {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

// NormalizeSafeSearch returns one of the SafeSearch levels,
// unknown values map to SafeSearchModerate.
func NormalizeSafeSearch(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SafeSearchOn, SafeSearchStrict:
		return SafeSearchOn
	case SafeSearchOff:
		return SafeSearchOff
	default:
		return SafeSearchModerate
	}
}
