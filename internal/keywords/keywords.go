// Package keywords ranks the terms of a single text by importance.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxKeywords is used when Extract is given a non-positive cap.
const DefaultMaxKeywords = 10

// Method names the scoring method that produced a ranking.
type Method string

const (
	// MethodNone marks an empty ranking.
	MethodNone Method = ""
	// MethodTFIDF is TF-IDF over the single-document corpus.
	MethodTFIDF Method = "tfidf"
	// MethodFrequency is the raw-count fallback used when TF-IDF has no vocabulary.
	MethodFrequency Method = "frequency"
)

// Keyword is a normalized term with its importance score.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
	First int     `json:"first"` // token position of the first occurrence
}

// Ranking is an ordered list of distinct keywords, most important first.
type Ranking struct {
	Keywords []Keyword `json:"keywords"`
	Method   Method    `json:"method"`
}

// Len returns the number of ranked keywords.
func (r Ranking) Len() int { return len(r.Keywords) }

// Terms returns the ranked terms in order.
func (r Ranking) Terms() []string {
	terms := make([]string, len(r.Keywords))
	for i, k := range r.Keywords {
		terms[i] = k.Term
	}
	return terms
}

// Degraded reports whether the frequency fallback produced the ranking.
func (r Ranking) Degraded() bool { return r.Method == MethodFrequency }

// Tokenize lowercases text, splits it on whitespace and keeps the tokens that
// are purely alphanumeric and not stop words. Order is preserved.
func Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		if !isAlnum(field) || IsStopWord(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// Extract returns the top maxKeywords terms of text. It never fails: text
// without usable tokens yields an empty ranking, and text whose tokens are all
// too short for the TF-IDF vocabulary is ranked by plain counts instead.
func Extract(text string, maxKeywords int) Ranking {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Ranking{}
	}

	if ranked := tfidf(tokens); len(ranked) > 0 {
		return Ranking{Keywords: top(ranked, maxKeywords), Method: MethodTFIDF}
	}
	return Ranking{Keywords: top(frequency(tokens), maxKeywords), Method: MethodFrequency}
}

// tfidf scores tokens of two or more characters. With a one-document corpus
// the smoothed idf is ln((1+1)/(1+1))+1 = 1, so the weight is the
// L2-normalized term frequency.
func tfidf(tokens []string) []Keyword {
	var vocab []string
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= 2 {
			vocab = append(vocab, tok)
		}
	}
	if len(vocab) == 0 {
		return nil
	}

	counted := count(vocab)
	var sumSquares float64
	for _, k := range counted {
		sumSquares += float64(k.Count * k.Count)
	}
	norm := math.Sqrt(sumSquares)
	for i := range counted {
		counted[i].Score = float64(counted[i].Count) / norm
	}
	return counted
}

func frequency(tokens []string) []Keyword {
	counted := count(tokens)
	for i := range counted {
		counted[i].Score = float64(counted[i].Count)
	}
	return counted
}

// count tallies tokens, returning keywords in first-appearance order.
func count(tokens []string) []Keyword {
	index := make(map[string]int)
	var out []Keyword
	for pos, tok := range tokens {
		if i, ok := index[tok]; ok {
			out[i].Count++
			continue
		}
		index[tok] = len(out)
		out = append(out, Keyword{Term: tok, Count: 1, First: pos})
	}
	return out
}

// top sorts by descending score, breaking ties by first appearance, and
// truncates to n.
func top(ks []Keyword, n int) []Keyword {
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].Score != ks[j].Score {
			return ks[i].Score > ks[j].Score
		}
		return ks[i].First < ks[j].First
	})
	if len(ks) > n {
		ks = ks[:n]
	}
	return ks
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
