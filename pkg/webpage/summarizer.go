package webpage

import (
	"context"
	"strings"
	"time"

	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/textproc"
)

// Summarizer produces a bounded digest of a page:
// fetch, chunk, summarize each chunk, join and cut.
type Summarizer struct {
	fetcher     TextFetcher
	placeholder string

	timeout         time.Duration
	chunkSize       int
	maxSentences    int
	maxChunkChars   int
	maxSummaryChars int
}

// NewSummarizer returns page summarizer, the placeholder is returned
// for pages without text.
func NewSummarizer(fetcher TextFetcher, cfg *config.Page, placeholder string) *Summarizer {
	return &Summarizer{
		fetcher:         fetcher,
		placeholder:     placeholder,
		timeout:         cfg.Timeout(),
		chunkSize:       cfg.ChunkSize,
		maxSentences:    cfg.MaxSentences,
		maxChunkChars:   cfg.MaxChunkChars,
		maxSummaryChars: cfg.MaxSummaryChars,
	}
}

// Placeholder returns the digest used for pages without content
func (s *Summarizer) Placeholder() string {
	return s.placeholder
}

// SummarizePage returns the digest of the page at url.
// Fetch failures produce the placeholder.
func (s *Summarizer) SummarizePage(ctx context.Context, url string) string {
	return s.SummarizeText(s.fetcher.FetchText(ctx, url, s.timeout))
}

// SummarizeText returns the digest of already fetched text.
func (s *Summarizer) SummarizeText(text string) string {
	if strings.TrimSpace(text) == "" {
		return s.placeholder
	}

	chunks := textproc.Chunk(text, s.chunkSize)
	partials := make([]string, 0, len(chunks))
	for _, c := range chunks {
		partials = append(partials, textproc.SummarizeChunk(c, s.maxSentences, s.maxChunkChars))
	}

	return textproc.Truncate(strings.Join(partials, "\n\n"), s.maxSummaryChars)
}
