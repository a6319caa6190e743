// Package llmutils provides helpers for the text exchanged with LLMs:
// cleaning model-produced JSON and serializing tool output.
package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// CleanJSON returns JSON by trimming prefixes and postfixes,
// as LLM can reply like `Here you go: {json}`
func CleanJSON(bs []byte) []byte {
	bs = BytesTrimBackticks(bs)

	start := firstIndex(bs, '{', '[')
	if start == -1 {
		return bs
	}
	bs = bs[start:]

	end := max(bytes.LastIndexByte(bs, '}'), bytes.LastIndexByte(bs, ']'))
	if end == -1 {
		return bs
	}
	return bs[:end+1]
}

func firstIndex(bs []byte, a, b byte) int {
	ia := bytes.IndexByte(bs, a)
	ib := bytes.IndexByte(bs, b)
	switch {
	case ia == -1:
		return ib
	case ib == -1:
		return ia
	default:
		return min(ia, ib)
	}
}

var backtick = []byte("```")

// BytesTrimBackticks removes ```json or ``` fence
func BytesTrimBackticks(bs []byte) []byte {
	start := bytes.Index(bs, backtick)
	if start == -1 {
		return bs
	}
	start += len(backtick)

	// skip the language tag
	for i := start; i < len(bs) && bs[i] != '{' && bs[i] != '['; i++ {
		if bs[i] == '\n' {
			start = i + 1
			break
		}
	}

	content := bs[start:]
	end := bytes.LastIndex(content, backtick)
	if end == -1 {
		return content
	}
	return bytes.TrimSpace(content[:end])
}

// ToJSON returns JSON encoded value, or empty string on error
func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

// ToJSONIndent returns tab indented JSON
func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

// ToYAML returns YAML encoded value
func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

// BackticksJSON wraps JSON in a fenced code block
func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}
