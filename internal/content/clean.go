package content

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Word characters are Unicode-aware so non-Latin scripts survive cleanup.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?-]`)
	urlRe        = regexp.MustCompile(`http\S+|www.\S+`)
)

// Clean collapses whitespace and strips everything except word characters,
// whitespace and basic punctuation.
func Clean(text string) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	return disallowedRe.ReplaceAllString(text, "")
}

// CountWords counts whitespace-separated words, ignoring URLs.
func CountWords(text string) int {
	return len(strings.Fields(urlRe.ReplaceAllString(text, "")))
}

// squash joins the words of s with single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
