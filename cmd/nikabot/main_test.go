package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NIKABOT_CONFIG", "")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSpecs(t *testing.T) {
	out, err := run(t, "specs")
	require.NoError(t, err)

	var specs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	require.Len(t, specs, 2)
	assert.Equal(t, "web_search", specs[0]["name"])
	assert.Equal(t, "get_crypto_info", specs[1]["name"])

	out, err = run(t, "specs", "--format", "openai", "--config", "testdata/crypto_only.yaml")
	require.NoError(t, err)
	var oai []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &oai))
	require.Len(t, oai, 1)
	assert.Equal(t, "function", oai[0]["type"])

	out, err = run(t, "specs", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: web_search")
	assert.Contains(t, out, "name: query")

	_, err = run(t, "specs", "-f", "xml")
	assert.EqualError(t, err, `unsupported format: "xml"`)

	_, err = run(t, "specs", "--config", "testdata/unknown_plugin.yaml")
	assert.EqualError(t, err, `unknown plugin: "weather"`)

	_, err = run(t, "specs", "--log-level", "LOUD")
	assert.EqualError(t, err, `invalid log level: "LOUD"`)
}

func TestCall(t *testing.T) {
	out, err := run(t, "call", "web_search", "query=  ")
	require.NoError(t, err)
	assert.Equal(t, "❓ Не задан поисковый запрос.\n", out)

	out, err = run(t, "call", "get_crypto_info", "--json", `{"asset": ""}`, "--raw", "--config", "testdata/crypto_only.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Please enter a coin name or ticker.")
	assert.Contains(t, out, "asset_searched: \"\"\n")

	out, err = run(t, "call", "web_search", "--config", "testdata/crypto_only.yaml")
	require.NoError(t, err)
	assert.Equal(t, "🚧 Tool web_search not found. Available tools: get_crypto_info\n", out)

	_, err = run(t, "call", "web_search", "query")
	assert.EqualError(t, err, `invalid argument "query": expected key=value`)

	_, err = run(t, "call")
	assert.Error(t, err)
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs(`{"query": "a", "lang": "en"}`, []string{"query=b=c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "b=c", "lang": "en"}, args)

	_, err = parseArgs("", []string{"=x"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	l, err := parseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, xlog.DEBUG, l)

	l, err = parseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, xlog.WARNING, l)
}

func TestNewRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.WebSearch.Backend = "tavily"
	_, err := newRegistry(cfg)
	assert.EqualError(t, err, "tavily API key is not set")

	cfg.WebSearch.TavilyAPIKey = "tvly-test"
	r, err := newRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"web_search", "get_crypto_info"}, r.Names())

	cfg.WebSearch.Backend = "bing"
	_, err = newRegistry(cfg)
	assert.EqualError(t, err, `unsupported search backend: "bing"`)
}
