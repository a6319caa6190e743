// Package duckduckgo implements search.Backend over the DuckDuckGo HTML endpoint.
package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/pkg/metricskey"
	"github.com/plagness/NikaBot/pkg/search"
	"golang.org/x/net/html"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot/pkg/search", "duckduckgo")

// Name of the backend
const Name = "duckduckgo"

// DefaultBaseURL is the no-JavaScript search endpoint
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

const maxResponseBytes = 4 * 1024 * 1024

// HTTPClient executes HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Backend searches DuckDuckGo
type Backend struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient HTTPClient
}

var _ search.Backend = (*Backend)(nil)

// New returns DuckDuckGo backend
func New(userAgent string, timeout time.Duration) *Backend {
	return &Backend{
		baseURL:    DefaultBaseURL,
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// WithBaseURL overrides the search endpoint, empty value is ignored
func (b *Backend) WithBaseURL(baseURL string) *Backend {
	if baseURL != "" {
		b.baseURL = baseURL
	}
	return b
}

// WithHTTPClient sets the HTTP client
func (b *Backend) WithHTTPClient(client HTTPClient) *Backend {
	b.httpClient = client
	return b
}

// Name returns the backend name
func (b *Backend) Name() string {
	return Name
}

// Search performs the query and returns at most q.MaxResults items
func (b *Backend) Search(ctx context.Context, q *search.Query) ([]search.Item, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	started := time.Now()
	defer metricskey.PerfHTTPRequest.MeasureSince(started, Name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+Params(q).Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(search.ErrBackend, err.Error())
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, Name)
		return nil, errors.Mark(errors.Wrap(err, "duckduckgo request failed"), search.ErrTransport)
	}
	defer resp.Body.Close()

	// throttled requests are answered with 202 and a challenge page
	if resp.StatusCode != http.StatusOK {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "status",
			"status", resp.StatusCode,
		)
		return nil, errors.Mark(errors.Newf("duckduckgo responded %s", resp.Status), search.ErrTransport)
	}

	items, err := ParseResults(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Mark(err, search.ErrBackend)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"keywords", q.Keywords,
		"region", q.Region,
		"timelimit", q.TimeLimit,
		"results", len(items),
	)
	return search.Limit(items, q.MaxResults), nil
}

// Params returns the endpoint query parameters for q
func Params(q *search.Query) url.Values {
	v := url.Values{}
	v.Set("q", q.Keywords)
	if q.Region != "" {
		v.Set("kl", q.Region)
	}
	switch search.NormalizeSafeSearch(q.SafeSearch) {
	case search.SafeSearchOn:
		v.Set("kp", "1")
	case search.SafeSearchOff:
		v.Set("kp", "-2")
	}
	if q.TimeLimit != "" {
		v.Set("df", q.TimeLimit)
	}
	return v
}

// ParseResults extracts organic results from the HTML result page.
// Ads are skipped.
func ParseResults(r io.Reader) ([]search.Item, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse duckduckgo response")
	}

	var items []search.Item
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result--ad"):
				return
			case hasClass(n, "result__a"):
				items = append(items, search.Item{
					Title: nodeText(n),
					URL:   ResolveURL(attr(n, "href")),
				})
				return
			case hasClass(n, "result__snippet"):
				if l := len(items); l > 0 && items[l-1].Snippet == "" {
					items[l-1].Snippet = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return items, nil
}

// ResolveURL returns the target of a DuckDuckGo redirect link,
// other links are returned as is.
func ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" && strings.HasPrefix(u.Path, "/l/") {
		return target
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
