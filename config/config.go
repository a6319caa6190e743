package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
	"github.com/plagness/NikaBot/pkg/search"
)

// Defaults
const (
	DefaultLanguage = "ru"

	DefaultSearchBackend    = "duckduckgo"
	DefaultSafeSearch       = "moderate"
	DefaultMaxResults       = 8
	DefaultFetchConcurrency = 4
	DefaultTimeoutSeconds   = 10

	DefaultUserAgent       = "Mozilla/5.0"
	DefaultMaxPageChars    = 2000
	DefaultChunkSize       = 2000
	DefaultMaxSentences    = 10
	DefaultMaxChunkChars   = 1200
	DefaultMaxSummaryChars = 3000
	DefaultMaxBodyBytes    = 2 * 1024 * 1024

	DefaultCoingeckoURL = "https://api.coingecko.com/api/v3"
	DefaultMaxNews      = 2
)

// Config of the tools
type Config struct {
	// Language specifies the display language of the answers: ru|en
	Language string `json:"language" yaml:"language" validate:"oneof=ru en"`
	// Plugins specifies the enabled tools by function name,
	// empty list enables all of them.
	Plugins []string `json:"plugins,omitempty" yaml:"plugins,omitempty"`

	WebSearch WebSearch `json:"web_search" yaml:"web_search"`
	Page      Page      `json:"page" yaml:"page"`
	Crypto    Crypto    `json:"crypto" yaml:"crypto"`
}

// WebSearch specifies the web search tool options
type WebSearch struct {
	// Backend specifies the search backend: duckduckgo|tavily
	Backend string `json:"backend" yaml:"backend" validate:"oneof=duckduckgo tavily"`
	// BaseURL overrides the search backend endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// SafeSearch specifies the safe search level: on|moderate|off,
	// strict is accepted as on
	SafeSearch string `json:"safe_search" yaml:"safe_search" validate:"oneof=on moderate off"`
	// MaxResults limits the number of search results to summarize
	MaxResults int `json:"max_results" yaml:"max_results" validate:"min=1,max=50"`
	// FetchConcurrency limits the pages fetched at the same time
	FetchConcurrency int `json:"fetch_concurrency" yaml:"fetch_concurrency" validate:"min=1,max=32"`
	// TimeoutSeconds specifies the search request timeout
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1"`
	TavilyAPIKey   string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`
}

// Page specifies the page fetch and summarization limits
type Page struct {
	UserAgent       string `json:"user_agent" yaml:"user_agent" validate:"required"`
	TimeoutSeconds  int    `json:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1"`
	MaxPageChars    int    `json:"max_page_chars" yaml:"max_page_chars" validate:"min=4"`
	ChunkSize       int    `json:"chunk_size" yaml:"chunk_size" validate:"min=1"`
	MaxSentences    int    `json:"max_sentences" yaml:"max_sentences" validate:"min=1"`
	MaxChunkChars   int    `json:"max_chunk_chars" yaml:"max_chunk_chars" validate:"min=4"`
	MaxSummaryChars int    `json:"max_summary_chars" yaml:"max_summary_chars" validate:"min=4"`
	// MaxBodyBytes limits the downloaded HTML before text extraction
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" validate:"min=1024"`
}

// Crypto specifies the Coingecko client options
type Crypto struct {
	BaseURL string `json:"base_url" yaml:"base_url" validate:"url"`
	// APIKey is optional demo API key
	APIKey         string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1"`
	// MaxNews limits the status updates in the report,
	// 0 disables them and omitted value uses the default
	MaxNews *int `json:"max_news,omitempty" yaml:"max_news,omitempty" validate:"omitempty,min=0"`
}

// Timeout returns the search request timeout
func (c *WebSearch) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the page fetch timeout
func (c *Page) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the Coingecko request timeout
func (c *Crypto) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NewsLimit returns the number of status updates to report
func (c *Crypto) NewsLimit() int {
	if c.MaxNews == nil {
		return DefaultMaxNews
	}
	return *c.MaxNews
}

// Default returns the configuration with all defaults set
func Default() *Config {
	cfg := new(Config)
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets the defaults for the values not specified
func (c *Config) SetDefaults() {
	c.Language = values.StringsCoalesce(c.Language, DefaultLanguage)

	ws := &c.WebSearch
	ws.Backend = values.StringsCoalesce(ws.Backend, DefaultSearchBackend)
	ws.SafeSearch = strings.ToLower(strings.TrimSpace(values.StringsCoalesce(ws.SafeSearch, DefaultSafeSearch)))
	if ws.SafeSearch == search.SafeSearchStrict {
		ws.SafeSearch = search.SafeSearchOn
	}
	ws.MaxResults = values.NumbersCoalesce(ws.MaxResults, DefaultMaxResults)
	ws.FetchConcurrency = values.NumbersCoalesce(ws.FetchConcurrency, DefaultFetchConcurrency)
	ws.TimeoutSeconds = values.NumbersCoalesce(ws.TimeoutSeconds, DefaultTimeoutSeconds)

	p := &c.Page
	p.UserAgent = values.StringsCoalesce(p.UserAgent, DefaultUserAgent)
	p.TimeoutSeconds = values.NumbersCoalesce(p.TimeoutSeconds, DefaultTimeoutSeconds)
	p.MaxPageChars = values.NumbersCoalesce(p.MaxPageChars, DefaultMaxPageChars)
	p.ChunkSize = values.NumbersCoalesce(p.ChunkSize, DefaultChunkSize)
	p.MaxSentences = values.NumbersCoalesce(p.MaxSentences, DefaultMaxSentences)
	p.MaxChunkChars = values.NumbersCoalesce(p.MaxChunkChars, DefaultMaxChunkChars)
	p.MaxSummaryChars = values.NumbersCoalesce(p.MaxSummaryChars, DefaultMaxSummaryChars)
	p.MaxBodyBytes = values.NumbersCoalesce(p.MaxBodyBytes, DefaultMaxBodyBytes)

	cr := &c.Crypto
	cr.BaseURL = values.StringsCoalesce(cr.BaseURL, DefaultCoingeckoURL)
	cr.TimeoutSeconds = values.NumbersCoalesce(cr.TimeoutSeconds, DefaultTimeoutSeconds)
	if cr.MaxNews == nil {
		n := DefaultMaxNews
		cr.MaxNews = &n
	}
}

// Validate returns error if the configuration is not valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.WebSearch.Backend == "tavily" && c.WebSearch.TavilyAPIKey == "" {
		return errors.New("invalid configuration: web_search.tavily_api_key is required for tavily backend")
	}
	return nil
}

// Load returns configuration loaded from the file,
// empty file name returns the defaults.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %q", file)
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
