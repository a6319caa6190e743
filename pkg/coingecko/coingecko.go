// Package coingecko provides a minimal client of the CoinGecko public API:
// coin search and coin details.
package coingecko

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/pkg/metricskey"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot/pkg", "coingecko")

// ServiceName is used in metrics tags
const ServiceName = "coingecko"

// APIKeyHeader is the header for the demo API key
const APIKeyHeader = "x-cg-demo-api-key"

const maxResponseBytes = 8 * 1024 * 1024

// HTTPClient executes HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewsItem is a coin status update
type NewsItem struct {
	Description string `json:"description" yaml:"description"`
	// CreatedAt is passed through as returned by the API
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// Asset is the coin details.
// Optional values are nil when the API did not return them.
type Asset struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Symbol          string     `json:"symbol" yaml:"symbol"`
	PriceUSD        *float64   `json:"current_price_usd,omitempty" yaml:"current_price_usd,omitempty"`
	Change7dPercent *float64   `json:"price_change_7d_percent,omitempty" yaml:"price_change_7d_percent,omitempty"`
	BullishPercent  float64    `json:"bullish_percent" yaml:"bullish_percent"`
	News            []NewsItem `json:"news" yaml:"news"`
}

// Client of CoinGecko API
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxNews    int
	httpClient HTTPClient
}

// New returns the client, maxNews limits the status updates in Asset.News
func New(baseURL, apiKey string, timeout time.Duration, maxNews int) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		maxNews:    maxNews,
		httpClient: &http.Client{},
	}
}

// WithHTTPClient sets the HTTP client
func (c *Client) WithHTTPClient(client HTTPClient) *Client {
	c.httpClient = client
	return c
}

// Search returns the coin IDs matching the query, in API relevance order
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	body, err := c.get(ctx, "/search", url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}

	// a response without coins means nothing matched
	coins := gjson.GetBytes(body, "coins")
	if !coins.Exists() {
		return nil, nil
	}
	if !coins.IsArray() {
		return nil, errors.New("unexpected search response: coins is not a list")
	}

	var ids []string
	for _, coin := range coins.Array() {
		if id := coin.Get("id").String(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Details returns the coin details
func (c *Client) Details(ctx context.Context, id string) (*Asset, error) {
	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"true"},
		"community_data": {"true"},
		"developer_data": {"true"},
		"sparkline":      {"false"},
	}
	body, err := c.get(ctx, "/coins/"+url.PathEscape(id), params)
	if err != nil {
		return nil, err
	}
	return ParseAsset(id, body, c.maxNews), nil
}

// ParseAsset extracts the Asset from the coin details JSON.
// Missing name or symbol become "?".
func ParseAsset(id string, body []byte, maxNews int) *Asset {
	a := &Asset{
		ID:     id,
		Name:   "?",
		Symbol: "?",
	}
	if v := gjson.GetBytes(body, "name"); v.Exists() && v.String() != "" {
		a.Name = v.String()
	}
	if v := gjson.GetBytes(body, "symbol"); v.Exists() && v.String() != "" {
		a.Symbol = strings.ToUpper(v.String())
	}
	a.PriceUSD = number(gjson.GetBytes(body, "market_data.current_price.usd"))
	a.Change7dPercent = number(gjson.GetBytes(body, "market_data.price_change_percentage_7d_in_currency.usd"))
	if v := number(gjson.GetBytes(body, "sentiment_votes_up_percentage")); v != nil {
		a.BullishPercent = *v
	}

	for _, u := range gjson.GetBytes(body, "status_updates").Array() {
		if len(a.News) >= maxNews {
			break
		}
		created := u.Get("created_at")
		item := NewsItem{Description: u.Get("description").String()}
		if created.Type == gjson.Number {
			item.CreatedAt = created.Raw
		} else {
			item.CreatedAt = created.String()
		}
		a.News = append(a.News, item)
	}
	return a
}

func number(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	defer metricskey.PerfHTTPRequest.MeasureSince(started, ServiceName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, ServiceName)
		return nil, errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, ServiceName)
		return nil, errors.Wrapf(err, "failed to read %s response", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metricskey.StatsHTTPRequestsFailed.IncrCounter(1, ServiceName)
		logger.ContextKV(ctx, xlog.WARNING,
			"path", path,
			"status", resp.StatusCode,
			"body", slices.StringUpto(string(body), 256),
		)
		return nil, errors.Newf("%s responded %s", path, resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.Newf("%s returned invalid JSON", path)
	}
	return body, nil
}
