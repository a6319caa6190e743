package crypto_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/coingecko"
	"github.com/plagness/NikaBot/pkg/locale"
	"github.com/plagness/NikaBot/tools/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	server        *httptest.Server
	searchCalls   atomic.Int32
	detailsCalls  atomic.Int32
	searchBody    []byte
	searchStatus  int
	detailsBody   []byte
	detailsStatus int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		searchStatus:  http.StatusOK,
		detailsStatus: http.StatusOK,
	}

	var err error
	f.searchBody, err = sjson.SetBytes([]byte(`{"coins":[]}`), "coins.0.id", "bitcoin")
	require.NoError(t, err)
	f.searchBody, err = sjson.SetBytes(f.searchBody, "coins.1.id", "bitcoin-cash")
	require.NoError(t, err)

	f.detailsBody = []byte(`{}`)
	for _, kv := range []struct {
		path string
		val  any
	}{
		{"id", "bitcoin"},
		{"name", "Bitcoin"},
		{"symbol", "btc"},
		{"market_data.current_price.usd", 50000},
		{"market_data.price_change_percentage_7d_in_currency.usd", 5},
		{"sentiment_votes_up_percentage", 80},
	} {
		f.detailsBody, err = sjson.SetBytes(f.detailsBody, kv.path, kv.val)
		require.NoError(t, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		w.WriteHeader(f.searchStatus)
		_, _ = w.Write(f.searchBody)
	})
	mux.HandleFunc("/coins/", func(w http.ResponseWriter, r *http.Request) {
		f.detailsCalls.Add(1)
		w.WriteHeader(f.detailsStatus)
		_, _ = w.Write(f.detailsBody)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) tool(lang string) *crypto.Tool {
	cfg := config.Default().Crypto
	api := coingecko.New(f.server.URL, "", cfg.Timeout(), cfg.NewsLimit()).WithHTTPClient(f.server.Client())
	return crypto.New(api, locale.MustNew(lang)).WithClock(func() time.Time { return fixedNow })
}

func TestTool_Metadata(t *testing.T) {
	tool := newFixture(t).tool("ru")
	assert.Equal(t, "get_crypto_info", tool.Name())
	assert.Equal(t, "Coingecko (detailed)", tool.SourceName())

	spec := tool.Describe()
	require.Len(t, spec.Properties, 1)
	assert.Equal(t, "asset", spec.Properties[0].Name)
	assert.True(t, spec.Properties[0].Required)
}

func TestTool_Bitcoin(t *testing.T) {
	f := newFixture(t)
	tool := f.tool("ru")

	res := tool.Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": " btc "})
	require.False(t, res.Failed(), res.ErrorMessage())

	out := res.FormattedAnswer()
	assert.Contains(t, out, "Bitcoin")
	assert.Contains(t, out, "BTC")
	assert.Contains(t, out, "50000.00")
	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "80.00%")
	assert.Contains(t, out, "📰 Новостей не найдено на Coingecko.")
	assert.Contains(t, out, "_Данные актуальны на 2024-05-01 10:30_")

	assert.Equal(t, "btc", res[crypto.KeyAssetSearched])
	assert.Equal(t, "bitcoin", res[crypto.KeyCoinID])
	assert.Equal(t, "Bitcoin", res[crypto.KeyName])
	assert.Equal(t, "BTC", res[crypto.KeySymbol])
	assert.Equal(t, 50000.0, res[crypto.KeyPriceUSD])
	assert.Equal(t, 5.0, res[crypto.KeyChange7dPercent])
	assert.Equal(t, 80.0, res[crypto.KeyBullishPercent])
	assert.Equal(t, 0, res[crypto.KeyNewsCount])
	assert.Equal(t, []coingecko.NewsItem{}, res[crypto.KeyNews])

	assert.EqualValues(t, 1, f.searchCalls.Load())
	assert.EqualValues(t, 1, f.detailsCalls.Load())
}

func TestTool_News(t *testing.T) {
	f := newFixture(t)
	var err error
	for i, kv := range []string{"first", "second", "third"} {
		f.detailsBody, err = sjson.SetBytes(f.detailsBody, "status_updates."+string(rune('0'+i))+".description", kv)
		require.NoError(t, err)
		f.detailsBody, err = sjson.SetBytes(f.detailsBody, "status_updates."+string(rune('0'+i))+".created_at", "2024-04-2"+string(rune('0'+i)))
		require.NoError(t, err)
	}

	res := f.tool("en").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "bitcoin"})
	require.False(t, res.Failed(), res.ErrorMessage())
	assert.Equal(t, 2, res[crypto.KeyNewsCount])
	assert.Contains(t, res.FormattedAnswer(), "📰 *Latest news*:\n• first (date: 2024-04-20)\n• second (date: 2024-04-21)\n")
	assert.NotContains(t, res.FormattedAnswer(), "third")
}

func TestTool_MissingFields(t *testing.T) {
	f := newFixture(t)
	f.detailsBody = []byte(`{"id":"mystery","market_data":{}}`)

	res := f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "mystery"})
	require.False(t, res.Failed(), res.ErrorMessage())

	out := res.FormattedAnswer()
	assert.Contains(t, out, "🪙 *?* (символ: ?)")
	assert.Contains(t, out, "💰 Текущая цена: нет данных")
	assert.Contains(t, out, "📈 Изменение за 7 дней: N/A")
	assert.Contains(t, out, "Примерно 0.00%")
	assert.Nil(t, res[crypto.KeyPriceUSD])
	assert.Nil(t, res[crypto.KeyChange7dPercent])
}

func TestTool_NotFound(t *testing.T) {
	for _, body := range []string{
		`{"coins":[]}`,
		`{"categories":[],"exchanges":[]}`,
		`{"coins":[{"name":"no id"}]}`,
	} {
		t.Run(body, func(t *testing.T) {
			f := newFixture(t)
			f.searchBody = []byte(body)

			res := f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "zzzz"})
			assert.False(t, res.Failed())
			assert.Equal(t, "❌ Не нашёл монету по запросу 'zzzz'. Попробуйте ввести официальное название или символ (на англ.), например: BTC, bitcoin.",
				res.FormattedAnswer())
			assert.Equal(t, "zzzz", res[crypto.KeyAssetSearched])
			assert.NotContains(t, res, crypto.KeyCoinID)

			assert.EqualValues(t, 1, f.searchCalls.Load())
			assert.EqualValues(t, 0, f.detailsCalls.Load())
		})
	}
}

func TestTool_EmptyAsset(t *testing.T) {
	f := newFixture(t)

	res := f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "  "})
	assert.True(t, res.Failed())
	assert.Equal(t, "❓ Пожалуйста, введите название или символ монеты.", res.FormattedAnswer())
	assert.EqualValues(t, 0, f.searchCalls.Load())
}

func TestTool_SearchError(t *testing.T) {
	f := newFixture(t)
	f.searchStatus = http.StatusServiceUnavailable

	res := f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "btc"})
	assert.True(t, res.Failed())
	assert.Equal(t, "🚧 Произошла ошибка при запросе к Coingecko /search.", res.FormattedAnswer())
	assert.Equal(t, "/search responded 503 Service Unavailable", res.ErrorMessage())
	assert.EqualValues(t, 0, f.detailsCalls.Load())

	f.searchStatus = http.StatusOK
	f.searchBody = []byte(`<html>`)
	res = f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "btc"})
	assert.True(t, res.Failed())
	assert.Equal(t, "/search returned invalid JSON", res.ErrorMessage())
}

func TestTool_DetailsError(t *testing.T) {
	f := newFixture(t)
	f.detailsStatus = http.StatusTooManyRequests

	res := f.tool("ru").Execute(context.Background(), "get_crypto_info", nil, map[string]any{"asset": "btc"})
	assert.True(t, res.Failed())
	assert.Equal(t, "🚧 Ошибка запроса к /coins/bitcoin : /coins/bitcoin responded 429 Too Many Requests", res.FormattedAnswer())
	assert.Equal(t, "bitcoin", res[crypto.KeyCoinID])
	assert.EqualValues(t, 1, f.detailsCalls.Load())
}
