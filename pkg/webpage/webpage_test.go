package webpage_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/textproc"
	"github.com/plagness/NikaBot/pkg/webpage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "(no content)"

func TestExtractText(t *testing.T) {
	tcases := []struct {
		name string
		html string
		exp  string
	}{
		{name: "empty", html: "", exp: ""},
		{name: "no_body_text", html: "<html><head><title>T</title></head><body></body></html>", exp: ""},
		{
			name: "body",
			html: `<html><head><title>Title</title><style>p{}</style></head>
<body>
  <h1>Hello</h1>
  <script>var x = 1;</script>
  <p>First   line.
  Second line.</p>
  <noscript>enable js</noscript>
  <!-- comment -->
  <div>Привет, мир</div>
</body></html>`,
			exp: "Hello First line. Second line. Привет, мир",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := webpage.ExtractText(strings.NewReader(tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.exp, text)
		})
	}
}

func TestFetcher(t *testing.T) {
	var gotUA string
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body><p>Go is expressive. It is concise.</p></body></html>")
	})
	mux.HandleFunc("/long", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", strings.Repeat("я", 100))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		fmt.Fprint(w, "<html><body>late</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := config.Default().Page
	cfg.MaxPageChars = 20
	f := webpage.NewFetcher(&cfg).WithHTTPClient(server.Client())
	ctx := context.Background()

	assert.Equal(t, "Go is expressive....", f.FetchText(ctx, server.URL+"/ok", time.Second))
	assert.Equal(t, "Mozilla/5.0", gotUA)

	long := f.FetchText(ctx, server.URL+"/long", time.Second)
	assert.Equal(t, 20, textproc.Len(long))
	assert.True(t, strings.HasSuffix(long, textproc.Ellipsis))

	assert.Empty(t, f.FetchText(ctx, server.URL+"/missing", time.Second))
	assert.Empty(t, f.FetchText(ctx, server.URL+"/slow", 50*time.Millisecond))
	assert.Empty(t, f.FetchText(ctx, "http://127.0.0.1:1/closed", time.Second))
	assert.Empty(t, f.FetchText(ctx, "://bad", time.Second))
}

type staticFetcher map[string]string

func (s staticFetcher) FetchText(_ context.Context, url string, _ time.Duration) string {
	return s[url]
}

func TestSummarizer(t *testing.T) {
	cfg := config.Default().Page
	cfg.ChunkSize = 30
	cfg.MaxSentences = 1
	cfg.MaxChunkChars = 100
	cfg.MaxSummaryChars = 1000

	fetcher := staticFetcher{
		"https://a.example": "One two. Three four. Five six seven eight nine ten. Eleven.",
		"https://b.example": "   ",
	}
	s := webpage.NewSummarizer(fetcher, &cfg, placeholder)
	ctx := context.Background()

	assert.Equal(t, placeholder, s.Placeholder())
	assert.Equal(t, placeholder, s.SummarizePage(ctx, "https://b.example"))
	assert.Equal(t, placeholder, s.SummarizePage(ctx, "https://unknown.example"))

	// chunks: "One two. Three four. Five six " and "seven eight nine ten. Eleven."
	assert.Equal(t, "One two.\n\nseven eight nine ten.", s.SummarizePage(ctx, "https://a.example"))

	t.Run("bounded", func(t *testing.T) {
		cfg := config.Default().Page
		cfg.ChunkSize = 50
		cfg.MaxSummaryChars = 120
		s := webpage.NewSummarizer(fetcher, &cfg, placeholder)

		out := s.SummarizeText(strings.Repeat("Sentence number one. ", 200))
		assert.LessOrEqual(t, textproc.Len(out), 120)
		assert.True(t, strings.HasSuffix(out, textproc.Ellipsis))
	})
}
