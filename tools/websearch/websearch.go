// Package websearch provides the web_search tool: search the web,
// summarize every result page and render a numbered list of links.
package websearch

import (
	"context"
	"reflect"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/locale"
	"github.com/plagness/NikaBot/pkg/schema"
	"github.com/plagness/NikaBot/pkg/search"
	"github.com/plagness/NikaBot/tools"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot/tools", "websearch")

// FunctionName of the tool
const FunctionName = "web_search"

// SourceName of the tool with the default backend
const SourceName = "DuckDuckGo-Thorough"

// backend display names, unknown backends are shown by their name
var sourceNames = map[string]string{
	"duckduckgo": "DuckDuckGo",
	"tavily":     "Tavily",
}

// Result keys
const (
	KeyResults   = "results"
	KeyQuery     = "query"
	KeyRegion    = "region"
	KeyTimeLimit = "timelimit"
)

// Request is the tool input
type Request struct {
	Query string `json:"query" yaml:"query" jsonschema:"description=User query (keywords\\, question\\, etc.)." validate:"max=1024"`
}

// PageDigest is a search result with its page summary
type PageDigest struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"link" yaml:"link"`
	Summary string `json:"summary" yaml:"summary"`
}

// Response is the tool output
type Response struct {
	Answer    string
	Query     string
	Region    string
	TimeLimit string
	Results   []PageDigest
}

// Result returns the invocation result
func (r Response) Result() tools.Result {
	results := r.Results
	if results == nil {
		results = []PageDigest{}
	}
	return tools.NewResult(r.Answer).
		With(KeyResults, results).
		With(KeyQuery, r.Query).
		With(KeyRegion, r.Region).
		With(KeyTimeLimit, r.TimeLimit)
}

// PageSummarizer produces a bounded digest of a page
type PageSummarizer interface {
	SummarizePage(ctx context.Context, url string) string
}

var requestSchema = schema.MustNew(reflect.TypeOf(Request{}))

// Tool searches the web and summarizes the result pages
type Tool struct {
	backend     search.Backend
	pages       PageSummarizer
	msgs        *locale.Catalog
	safeSearch  string
	maxResults  int
	concurrency int
}

var _ tools.Tool[Request, Response] = (*Tool)(nil)

// New returns the tool
func New(cfg *config.WebSearch, backend search.Backend, pages PageSummarizer, msgs *locale.Catalog) *Tool {
	return &Tool{
		backend:     backend,
		pages:       pages,
		msgs:        msgs,
		safeSearch:  search.NormalizeSafeSearch(cfg.SafeSearch),
		maxResults:  cfg.MaxResults,
		concurrency: max(cfg.FetchConcurrency, 1),
	}
}

func (t *Tool) Name() string {
	return FunctionName
}

func (t *Tool) Description() string {
	return "Searches the web (search engine) and returns summarized content of the found pages."
}

// SourceName returns the display name of the configured search backend
func (t *Tool) SourceName() string {
	name := t.backend.Name()
	if display, ok := sourceNames[name]; ok {
		name = display
	}
	return name + "-Thorough"
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

// Run searches and summarizes.
// Search failures are returned as *tools.Failure.
func (t *Tool) Run(ctx context.Context, req *Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, tools.Fail(t.msgs.Text(locale.WebSearchEmptyQuery), nil).
			WithField(KeyResults, []PageDigest{}).
			WithField(KeyQuery, "")
	}

	q := &search.Query{
		Keywords:   query,
		Region:     DetectRegion(query),
		SafeSearch: t.safeSearch,
		TimeLimit:  DetectTimeLimit(query),
		MaxResults: t.maxResults,
	}

	items, err := t.backend.Search(ctx, q)
	if err != nil {
		id := locale.WebSearchBackendError
		if search.IsTransport(err) {
			id = locale.WebSearchNetworkError
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"backend", t.backend.Name(),
			"reason", "search",
			"err", err.Error(),
		)
		return nil, tools.Fail(t.msgs.Render(id, map[string]any{"Err": err.Error()}), err).
			WithField(KeyResults, []PageDigest{}).
			WithField(KeyQuery, q.Keywords).
			WithField(KeyRegion, q.Region).
			WithField(KeyTimeLimit, q.TimeLimit)
	}

	res := &Response{
		Query:     q.Keywords,
		Region:    q.Region,
		TimeLimit: q.TimeLimit,
		Results:   Dedup(search.Limit(items, t.maxResults)),
	}
	if len(res.Results) == 0 {
		res.Answer = t.msgs.Render(locale.WebSearchNotFound, map[string]any{"Query": q.Keywords})
		return res, nil
	}

	t.summarize(ctx, res.Results)

	res.Answer = t.msgs.Render(locale.WebSearchReport, map[string]any{
		"Query": q.Keywords,
		"Fresh": q.TimeLimit != search.TimeLimitNone,
		"Items": res.Results,
	})
	return res, nil
}

// summarize fills the page summaries, each worker writes its own index
func (t *Tool) summarize(ctx context.Context, list []PageDigest) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i := range list {
		g.Go(func() error {
			list[i].Summary = t.pages.SummarizePage(gctx, list[i].URL)
			return nil
		})
	}
	_ = g.Wait()
}
