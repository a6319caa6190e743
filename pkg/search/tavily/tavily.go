// Package tavily implements search.Backend over the Tavily search API.
package tavily

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/pkg/metricskey"
	"github.com/plagness/NikaBot/pkg/search"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot/pkg/search", "tavily")

// Name of the backend
const Name = "tavily"

// Backend searches with Tavily.
// Region and TimeLimit of the query are not supported by the API and ignored.
type Backend struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

var _ search.Backend = (*Backend)(nil)

// New returns Tavily backend
func New(apiKey string, timeout time.Duration) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("tavily API key is not set")
	}
	return &Backend{
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithBaseURL overrides the API endpoint, empty value is ignored
func (b *Backend) WithBaseURL(baseURL string) *Backend {
	if baseURL != "" {
		b.baseURL = baseURL
	}
	return b
}

// WithHTTPClient sets the HTTP client,
// the backend timeout still bounds every search
func (b *Backend) WithHTTPClient(client *http.Client) *Backend {
	b.httpClient = client
	return b
}

// Name returns the backend name
func (b *Backend) Name() string {
	return Name
}

type result struct {
	items []search.Item
	err   error
}

// Search performs the query and returns at most q.MaxResults items.
func (b *Backend) Search(ctx context.Context, q *search.Query) ([]search.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "tavily request cancelled"), search.ErrTransport)
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	client := tavilygo.NewClient(b.apiKey)
	if b.baseURL != "" {
		client.BaseURL = b.baseURL
	}
	if b.httpClient != nil {
		client.HTTPClient = b.httpClient
	}

	started := time.Now()
	defer metricskey.PerfHTTPRequest.MeasureSince(started, Name)

	// the client does not accept context, so cancellation is honored
	// by abandoning the call
	done := make(chan result, 1)
	go func() {
		resp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
			Query:       q.Keywords,
			SearchDepth: "basic",
		})
		if err != nil {
			done <- result{err: err}
			return
		}
		items := make([]search.Item, 0, len(resp.Results))
		for _, r := range resp.Results {
			items = append(items, search.Item{
				Title:   r.Title,
				URL:     r.URL,
				Snippet: r.Content,
			})
		}
		done <- result{items: items}
	}()

	var res result
	select {
	case <-ctx.Done():
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, Name)
		return nil, errors.Mark(errors.Wrap(ctx.Err(), "tavily request cancelled"), search.ErrTransport)
	case res = <-done:
	}

	if res.err != nil {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "search",
			"err", res.err.Error(),
		)
		return nil, errors.Mark(errors.Wrap(res.err, "tavily request failed"), search.ErrTransport)
	}
	return search.Limit(res.items, q.MaxResults), nil
}
