package tts

import (
	"strings"
	"unicode"
)

// Chunk splits text into pieces of at most limit runes, preferring sentence
// ends, then word boundaries. Words longer than limit are cut.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxChunkRunes
	}
	var chunks []string
	var cur []rune

	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, sentence := range sentences(text) {
		s := []rune(sentence)
		if len(cur) > 0 && len(cur)+1+len(s) <= limit {
			cur = append(cur, ' ')
			cur = append(cur, s...)
			continue
		}
		flush()
		if len(s) <= limit {
			cur = append(cur, s...)
			continue
		}
		for _, word := range strings.Fields(sentence) {
			w := []rune(word)
			for len(w) > limit {
				flush()
				chunks = append(chunks, string(w[:limit]))
				w = w[limit:]
			}
			if len(cur) > 0 && len(cur)+1+len(w) > limit {
				flush()
			}
			if len(cur) > 0 {
				cur = append(cur, ' ')
			}
			cur = append(cur, w...)
		}
	}
	flush()
	return chunks
}

// sentences splits after ., !, ? and their CJK/Devanagari counterparts.
func sentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteRune(' ')
			}
			continue
		}
		b.WriteRune(r)
		switch r {
		case '.', '!', '?', '。', '！', '？', '।':
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
