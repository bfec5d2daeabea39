package export

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	whatsAppBase = "https://wa.me/?text="
	previewRunes = 150
	shareSignoff = "Generated by Multi-Source Content Summarizer"
)

func shareBody(title, summary, source string) string {
	return fmt.Sprintf("📚 Summary of: %s\n\n%s\n\nOriginal content: %s", title, summary, source)
}

// WhatsAppLink returns a wa.me link that pre-fills the summary.
func WhatsAppLink(title, summary, source string) string {
	return whatsAppBase + strings.ReplaceAll(url.QueryEscape(shareBody(title, summary, source)), "+", "%20")
}

// ShareText is the full text offered for copying.
func ShareText(title, summary, source string) string {
	return shareBody(title, summary, source) + "\n\n" + shareSignoff
}

// Preview is the first 150 characters of summary, with an ellipsis when cut.
func Preview(summary string) string {
	r := []rune(summary)
	if len(r) <= previewRunes {
		return summary
	}
	return string(r[:previewRunes]) + "..."
}
