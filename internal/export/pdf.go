// Package export renders a summary as a PDF report and as share text.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Report is what goes into a PDF.
type Report struct {
	Summary     string
	URL         string
	Language    string
	Length      string
	GeneratedAt time.Time
}

// ErrUnsupportedText means the report holds characters the PDF core fonts
// cannot encode (anything outside Windows-1252).
var ErrUnsupportedText = errors.New("text cannot be encoded in the PDF font")

// PDFFileName is the download name for a report generated at t.
func PDFFileName(t time.Time) string {
	return "summary_" + t.Format("20060102_150405") + ".pdf"
}

// PDF renders r as a single-column A4 report.
func PDF(r Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Content Summary Report", true)
	pdf.AddPage()
	// Core fonts are cp1252; map UTF-8 onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, f := range []struct{ name, text string }{
		{"summary", r.Summary},
		{"source URL", r.URL},
		{"language", r.Language},
		{"length", r.Length},
	} {
		if c, ok := unencodable(tr, f.text); ok {
			return nil, fmt.Errorf("%s contains %q: %w", f.name, c, ErrUnsupportedText)
		}
	}

	line := func(text string) {
		pdf.CellFormat(0, 10, tr(text), "", 1, "", false, 0, "")
	}

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Content Summary Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.Line(10, 30, 200, 30)
	pdf.Ln(15)

	// Details
	pdf.SetFont("Arial", "B", 12)
	line("Summary Details:")
	pdf.SetFont("Arial", "", 12)
	line("Source URL: " + r.URL)
	line("Language: " + r.Language)
	line("Summary Length: " + r.Length)
	line("Generated on: " + r.GeneratedAt.Format("2006-01-02 15:04:05"))

	// Body
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 12)
	line("Summary:")
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, tr(r.Summary), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// unencodable returns the first rune tr cannot map. The translator writes
// '.' for every rune missing from the code page, and '.' itself is ASCII.
func unencodable(tr func(string) string, s string) (rune, bool) {
	for _, c := range s {
		if c >= 0x80 && tr(string(c)) == "." {
			return c, true
		}
	}
	return 0, false
}
