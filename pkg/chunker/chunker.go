package chunker

import (
	"strings"
	"unicode/utf8"
)

type ChunkOptions struct {
	ChunkSize    int // target chunk size in characters
	ChunkOverlap int // characters carried over from the previous chunk
}

type TextChunk struct {
	Content string
	Index   int
}

func DefaultOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize:    700,
		ChunkOverlap: 60,
	}
}

// separators tried in order: paragraph, line, sentence, word.
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunk splits text into pieces no longer than opts.ChunkSize characters,
// preferring paragraph/sentence/word boundaries before hard cuts, with
// opts.ChunkOverlap characters of context repeated from the previous piece.
func Chunk(text string, opts ChunkOptions) []TextChunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 700
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = 0
	}

	parts := splitRecursive(text, separators, opts.ChunkSize-opts.ChunkOverlap)

	var chunks []TextChunk
	idx := 0
	prevTail := ""
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		content := trimmed
		if prevTail != "" {
			joined := prevTail + " " + trimmed
			// Never let the overlap push a chunk past the size limit.
			if utf8.RuneCountInString(joined) <= opts.ChunkSize {
				content = joined
			}
		}

		chunks = append(chunks, TextChunk{Content: content, Index: idx})
		idx++
		prevTail = tail(trimmed, opts.ChunkOverlap)
	}

	return chunks
}

func splitRecursive(text string, seps []string, chunkSize int) []string {
	if utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	if len(seps) == 0 {
		// No boundary left to respect; hard cut.
		var result []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += chunkSize {
			end := i + chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			result = append(result, string(runes[i:end]))
		}
		return result
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	var result []string
	var current strings.Builder

	for _, part := range parts {
		if current.Len() > 0 && utf8.RuneCountInString(current.String()+sep+part) > chunkSize {
			result = append(result, splitRecursive(current.String(), seps[1:], chunkSize)...)
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}

	if current.Len() > 0 {
		result = append(result, splitRecursive(current.String(), seps[1:], chunkSize)...)
	}

	return result
}

// tail returns at most the last n runes of s, shortened to the nearest word
// boundary so the overlap never starts mid-word.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	start := len(runes) - n
	for start < len(runes) && runes[start] != ' ' {
		start++
	}
	return strings.TrimSpace(string(runes[start:]))
}
