package export

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDF(t *testing.T) {
	out, err := PDF(Report{
		Summary:     strings.Repeat("Data flows through the pipeline into the store. ", 40),
		URL:         "https://example.com/post",
		Language:    "French",
		Length:      "Short (150 words)",
		GeneratedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestPDF_WesternEuropeanText(t *testing.T) {
	out, err := PDF(Report{
		Summary:     "Café — naïve „Größe“ 5 €",
		Language:    "German",
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDF_RejectsTextOutsideFont(t *testing.T) {
	cases := map[string]Report{
		"hindi summary":   {Summary: "डेटा पाइपलाइन"},
		"russian summary": {Summary: "данные"},
		"chinese summary": {Summary: "数据管道"},
		"url":             {Summary: "ok", URL: "https://пример.рф/"},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := PDF(r)
			require.ErrorIs(t, err, ErrUnsupportedText)
			assert.Nil(t, out)
		})
	}
}

func TestPDFFileName(t *testing.T) {
	assert.Equal(t, "summary_20261017_093005.pdf", PDFFileName(time.Date(2026, 10, 17, 9, 30, 5, 0, time.UTC)))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("Go & You", "Short summary.", "https://example.com/?a=1&b=2")
	require.True(t, strings.HasPrefix(link, "https://wa.me/?text="))
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t,
		"📚 Summary of: Go & You\n\nShort summary.\n\nOriginal content: https://example.com/?a=1&b=2",
		u.Query().Get("text"))
}

func TestShareText(t *testing.T) {
	got := ShareText("Title", "Body", "https://x.test")
	assert.Equal(t, "📚 Summary of: Title\n\nBody\n\nOriginal content: https://x.test\n\nGenerated by Multi-Source Content Summarizer", got)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))

	long := strings.Repeat("é", 200)
	got := Preview(long)
	assert.Equal(t, strings.Repeat("é", 150)+"...", got)
}
