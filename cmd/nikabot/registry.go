package main

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/coingecko"
	"github.com/plagness/NikaBot/pkg/locale"
	"github.com/plagness/NikaBot/pkg/search"
	"github.com/plagness/NikaBot/pkg/search/duckduckgo"
	"github.com/plagness/NikaBot/pkg/search/tavily"
	"github.com/plagness/NikaBot/pkg/webpage"
	"github.com/plagness/NikaBot/tools"
	"github.com/plagness/NikaBot/tools/crypto"
	"github.com/plagness/NikaBot/tools/websearch"
)

// newSearchBackend returns the configured search backend
func newSearchBackend(cfg *config.Config) (search.Backend, error) {
	ws := &cfg.WebSearch
	switch ws.Backend {
	case duckduckgo.Name:
		return duckduckgo.New(cfg.Page.UserAgent, ws.Timeout()).WithBaseURL(ws.BaseURL), nil
	case tavily.Name:
		b, err := tavily.New(ws.TavilyAPIKey, ws.Timeout())
		if err != nil {
			return nil, err
		}
		return b.WithBaseURL(ws.BaseURL), nil
	default:
		return nil, errors.Newf("unsupported search backend: %q", ws.Backend)
	}
}

// newRegistry returns the registry of the tools enabled in the configuration
func newRegistry(cfg *config.Config) (*tools.Registry, error) {
	msgs, err := locale.New(cfg.Language)
	if err != nil {
		return nil, err
	}

	backend, err := newSearchBackend(cfg)
	if err != nil {
		return nil, err
	}
	pages := webpage.NewSummarizer(webpage.NewFetcher(&cfg.Page), &cfg.Page, msgs.Text(locale.PageNoContent))
	api := coingecko.New(cfg.Crypto.BaseURL, cfg.Crypto.APIKey, cfg.Crypto.Timeout(), cfg.Crypto.NewsLimit())

	all := []tools.ITool{
		websearch.New(&cfg.WebSearch, backend, pages, msgs),
		crypto.New(api, msgs),
	}

	enabled := make([]string, 0, len(cfg.Plugins))
	for _, p := range cfg.Plugins {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			enabled = append(enabled, p)
		}
	}

	var list []tools.ITool
	for _, t := range all {
		if len(enabled) == 0 || slices.Contains(enabled, strings.ToLower(t.Name())) {
			list = append(list, t)
		}
	}
	for _, name := range enabled {
		if !slices.ContainsFunc(all, func(t tools.ITool) bool { return strings.ToLower(t.Name()) == name }) {
			return nil, errors.Newf("unknown plugin: %q", name)
		}
	}

	r, err := tools.NewRegistry(msgs, list...)
	if err != nil {
		return nil, err
	}
	return r.WithCallback(tools.NewPackageLoggerCallback(logger)), nil
}
