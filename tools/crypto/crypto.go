// Package crypto provides the get_crypto_info tool:
// coin price, weekly change, community sentiment and news from CoinGecko.
package crypto

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
	"github.com/plagness/NikaBot/pkg/coingecko"
	"github.com/plagness/NikaBot/pkg/locale"
	"github.com/plagness/NikaBot/pkg/schema"
	"github.com/plagness/NikaBot/tools"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot/tools", "crypto")

// FunctionName of the tool
const FunctionName = "get_crypto_info"

// SourceName of the tool
const SourceName = "Coingecko (detailed)"

// TimestampFormat of the report generation time
const TimestampFormat = "2006-01-02 15:04"

// Result keys
const (
	KeyAssetSearched   = "asset_searched"
	KeyCoinID          = "coin_id"
	KeyName            = "name"
	KeySymbol          = "symbol"
	KeyPriceUSD        = "current_price_usd"
	KeyChange7dPercent = "price_change_7d_percent"
	KeyBullishPercent  = "bullish_percent"
	KeyNewsCount       = "latest_news_count"
	KeyNews            = "news"
)

// Request is the tool input
type Request struct {
	Asset string `json:"asset" yaml:"asset" jsonschema:"description=Coin name or ticker\\, for example: bitcoin\\, BTC\\, ethereum." validate:"max=256"`
}

// Response is the tool output.
// Asset is nil when no coin matched the query.
type Response struct {
	Answer        string
	AssetSearched string
	Asset         *coingecko.Asset
}

// Result returns the invocation result
func (r Response) Result() tools.Result {
	res := tools.NewResult(r.Answer).With(KeyAssetSearched, r.AssetSearched)
	if r.Asset == nil {
		return res
	}

	a := r.Asset
	news := a.News
	if news == nil {
		news = []coingecko.NewsItem{}
	}
	res.With(KeyCoinID, a.ID).
		With(KeyName, a.Name).
		With(KeySymbol, a.Symbol).
		With(KeyBullishPercent, a.BullishPercent).
		With(KeyNewsCount, len(news)).
		With(KeyNews, news)
	// absent values are reported as nil
	res[KeyPriceUSD] = optional(a.PriceUSD)
	res[KeyChange7dPercent] = optional(a.Change7dPercent)
	return res
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// AssetAPI resolves and describes coins
type AssetAPI interface {
	// Search returns coin IDs in relevance order
	Search(ctx context.Context, query string) ([]string, error)
	Details(ctx context.Context, id string) (*coingecko.Asset, error)
}

var requestSchema = schema.MustNew(reflect.TypeOf(Request{}))

// Tool reports coin details
type Tool struct {
	api  AssetAPI
	msgs *locale.Catalog
	now  func() time.Time
}

var _ tools.Tool[Request, Response] = (*Tool)(nil)

// New returns the tool
func New(api AssetAPI, msgs *locale.Catalog) *Tool {
	return &Tool{
		api:  api,
		msgs: msgs,
		now:  time.Now,
	}
}

// WithClock sets the clock used for the report timestamp
func (t *Tool) WithClock(now func() time.Time) *Tool {
	t.now = now
	return t
}

func (t *Tool) Name() string {
	return FunctionName
}

func (t *Tool) Description() string {
	return "Get price, 7 day change, community sentiment and latest news of a crypto currency by its name or ticker."
}

func (t *Tool) SourceName() string {
	return SourceName
}

func (t *Tool) Parameters() *jsonschema.Schema {
	return requestSchema.Parameters
}

func (t *Tool) Describe() *tools.Specification {
	spec := tools.Describe(t)
	spec.Properties = requestSchema.Properties()
	return spec
}

func (t *Tool) Execute(ctx context.Context, _ string, _ tools.Helper, args map[string]any) tools.Result {
	return tools.Invoke[Request, Response](ctx, t, t.msgs, args)
}

// Run resolves the asset to the first matching coin and renders its report.
func (t *Tool) Run(ctx context.Context, req *Request) (*Response, error) {
	query := strings.TrimSpace(req.Asset)
	if query == "" {
		return nil, tools.Fail(t.msgs.Text(locale.CryptoEmptyAsset), nil).
			WithField(KeyAssetSearched, "")
	}

	ids, err := t.api.Search(ctx, query)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "search",
			"asset", query,
			"err", err.Error(),
		)
		return nil, tools.Fail(t.msgs.Text(locale.CryptoSearchError), err).
			WithField(KeyAssetSearched, query)
	}

	res := &Response{AssetSearched: query}
	if len(ids) == 0 {
		res.Answer = t.msgs.Render(locale.CryptoNotFound, map[string]any{"Query": query})
		return res, nil
	}

	id := ids[0]
	asset, err := t.api.Details(ctx, id)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "details",
			"coin_id", id,
			"err", err.Error(),
		)
		return nil, tools.Fail(t.msgs.Render(locale.CryptoDetailsError, map[string]any{"ID": id, "Err": err.Error()}), err).
			WithField(KeyAssetSearched, query).
			WithField(KeyCoinID, id)
	}

	res.Asset = asset
	res.Answer = t.msgs.Render(locale.CryptoReport, newReport(asset, t.now()))
	return res, nil
}

// report is the view model of locale.CryptoReport
type report struct {
	Name           string
	Symbol         string
	Price          float64
	HasPrice       bool
	Change7d       float64
	HasChange7d    bool
	BullishPercent float64
	News           []coingecko.NewsItem
	GeneratedAt    string
}

func newReport(a *coingecko.Asset, now time.Time) *report {
	r := &report{
		Name:           a.Name,
		Symbol:         a.Symbol,
		BullishPercent: a.BullishPercent,
		News:           a.News,
		GeneratedAt:    now.Format(TimestampFormat),
	}
	if a.PriceUSD != nil {
		r.Price, r.HasPrice = *a.PriceUSD, true
	}
	if a.Change7dPercent != nil {
		r.Change7d, r.HasChange7d = *a.Change7dPercent, true
	}
	return r
}
