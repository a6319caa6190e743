// Package webpage fetches pages and reduces their text to bounded digests.
package webpage

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/metricskey"
	"github.com/plagness/NikaBot/pkg/textproc"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot", "webpage")

// HTTPClient executes HTTP requests.
// *http.Client implements this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TextFetcher retrieves textual content of a page.
type TextFetcher interface {
	// FetchText returns the visible text of the page,
	// or empty string when no content is available.
	FetchText(ctx context.Context, url string, timeout time.Duration) string
}

// Fetcher downloads pages and extracts their visible text.
type Fetcher struct {
	client       HTTPClient
	userAgent    string
	maxChars     int
	maxBodyBytes int64
}

var _ TextFetcher = (*Fetcher)(nil)

// NewFetcher returns a fetcher configured with the page limits
func NewFetcher(cfg *config.Page) *Fetcher {
	return &Fetcher{
		// per-call timeouts are set on the request context
		client:       &http.Client{},
		userAgent:    cfg.UserAgent,
		maxChars:     cfg.MaxPageChars,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// WithHTTPClient sets the HTTP client
func (f *Fetcher) WithHTTPClient(client HTTPClient) *Fetcher {
	f.client = client
	return f
}

// FetchText issues GET request with a browser User-Agent and returns
// the page body text cut to the configured number of characters.
// Any failure results in empty string.
func (f *Fetcher) FetchText(ctx context.Context, url string, timeout time.Duration) string {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	defer metricskey.PerfHTTPRequest.MeasureSince(started, "page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.failed(ctx, url, "new_request", err.Error())
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.failed(ctx, url, "do_request", err.Error())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.failed(ctx, url, "status", resp.Status)
		return ""
	}

	text, err := ExtractText(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		f.failed(ctx, url, "extract", err.Error())
		return ""
	}
	if text == "" {
		metricskey.StatsPagesFetched.IncrCounter(1, "empty")
		return ""
	}

	metricskey.StatsPagesFetched.IncrCounter(1, "ok")
	return textproc.Truncate(text, f.maxChars)
}

func (f *Fetcher) failed(ctx context.Context, url, reason, msg string) {
	metricskey.StatsPagesFetched.IncrCounter(1, "failed")
	metricskey.StatsHTTPRequestsFailed.IncrCounter(1, "page")
	logger.ContextKV(ctx, xlog.DEBUG,
		"reason", reason,
		"url", slices.StringUpto(url, 256),
		"err", msg,
	)
}
