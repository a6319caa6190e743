// Package textproc provides the text splitting and naive summarization
// primitives used to turn unbounded page content into bounded digests.
package textproc

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to text that was cut to fit a budget.
const Ellipsis = "..."

// Terminator is the sentence terminator used by SummarizeChunk.
const Terminator = "."

// Chunk splits text into consecutive, non-overlapping segments of
// at most size characters. Only the last segment may be shorter.
// Empty text produces no chunks.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for i := range text {
		if count == size {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}

// SummarizeChunk returns the first maxSentences sentences of chunk,
// terminated with a period and cut to maxChars characters.
//
// This is an excerpt, not a semantic summary: sentences are fragments
// between periods.
func SummarizeChunk(chunk string, maxSentences, maxChars int) string {
	sentences := strings.Split(strings.TrimSpace(chunk), Terminator)
	if maxSentences >= 0 && len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	for i, s := range sentences {
		sentences[i] = strings.TrimSpace(s)
	}

	short := strings.TrimSpace(strings.Join(sentences, Terminator))
	if !strings.HasSuffix(short, Terminator) {
		short += Terminator
	}
	return Truncate(short, maxChars)
}

// Truncate cuts s to at most max characters, including the Ellipsis
// marker that is appended when s was cut.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= len(Ellipsis) {
		return Ellipsis[:max]
	}
	runes := []rune(s)
	return string(runes[:max-len(Ellipsis)]) + Ellipsis
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
