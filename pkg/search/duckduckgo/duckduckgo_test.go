package duckduckgo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plagness/NikaBot/pkg/search"
	"github.com/plagness/NikaBot/pkg/search/duckduckgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expItems = []search.Item{
	{
		Title:   "The Go Programming Language",
		URL:     "https://go.dev/",
		Snippet: "Go is an open source programming language.",
	},
	{
		Title:   "Go (programming language) - Wikipedia",
		URL:     "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Snippet: "Go is a statically typed, compiled language.",
	},
	{
		Title: "Documentation",
		URL:   "https://go.dev/doc/",
	},
}

func TestParseResults(t *testing.T) {
	f, err := os.Open("testdata/results.html")
	require.NoError(t, err)
	defer f.Close()

	items, err := duckduckgo.ParseResults(f)
	require.NoError(t, err)
	assert.Equal(t, expItems, items)
}

func TestResolveURL(t *testing.T) {
	tcases := []struct {
		href string
		exp  string
	}{
		{"", ""},
		{"https://example.com/a?b=c", "https://example.com/a?b=c"},
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpath%3Fq%3D1&rut=x", "https://example.com/path?q=1"},
		{"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org", "https://example.org"},
		{"https://example.com/?uddg=keep", "https://example.com/?uddg=keep"},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, duckduckgo.ResolveURL(tc.href), tc.href)
	}
}

func TestParams(t *testing.T) {
	v := duckduckgo.Params(&search.Query{
		Keywords:   "новости",
		Region:     "ru-ru",
		SafeSearch: search.SafeSearchOff,
		TimeLimit:  search.TimeLimitWeek,
	})
	assert.Equal(t, "новости", v.Get("q"))
	assert.Equal(t, "ru-ru", v.Get("kl"))
	assert.Equal(t, "-2", v.Get("kp"))
	assert.Equal(t, "w", v.Get("df"))

	v = duckduckgo.Params(&search.Query{Keywords: "go", SafeSearch: search.SafeSearchModerate})
	assert.False(t, v.Has("kp"))
	assert.False(t, v.Has("df"))
	assert.False(t, v.Has("kl"))

	v = duckduckgo.Params(&search.Query{Keywords: "go", SafeSearch: search.SafeSearchOn})
	assert.Equal(t, "1", v.Get("kp"))
}

func TestSearch(t *testing.T) {
	page, err := os.ReadFile("testdata/results.html")
	require.NoError(t, err)

	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "us-en", r.URL.Query().Get("kl"))
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write(page)
	}))
	defer server.Close()

	b := duckduckgo.New("Mozilla/5.0", time.Second).
		WithBaseURL(server.URL).
		WithHTTPClient(server.Client())
	assert.Equal(t, duckduckgo.Name, b.Name())

	ctx := context.Background()
	q := &search.Query{Keywords: "golang", Region: "us-en", MaxResults: 2}

	items, err := b.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, expItems[:2], items)

	status.Store(http.StatusAccepted)
	_, err = b.Search(ctx, q)
	require.Error(t, err)
	assert.True(t, search.IsTransport(err))
	assert.Contains(t, err.Error(), "202")

	server.Close()
	_, err = b.Search(ctx, q)
	require.Error(t, err)
	assert.True(t, search.IsTransport(err))
}
