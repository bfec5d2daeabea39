package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultWatchBase = "https://www.youtube.com"
	maxBodyBytes     = 5 << 20
	minParagraphLen  = 50

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ErrNoContent is returned when a page yields no usable text.
var ErrNoContent = errors.New("no content found")

// VideoDetails is the metadata shown next to a YouTube summary.
type VideoDetails struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Channel     string        `json:"channel"`
	ChannelURL  string        `json:"channel_url,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Duration    time.Duration `json:"duration"`
	UploadDate  string        `json:"upload_date,omitempty"`
	Views       int64         `json:"views"`
}

// Document is cleaned text plus what is known about its source.
type Document struct {
	URL   string        `json:"url"`
	Kind  Kind          `json:"kind"`
	Title string        `json:"title"`
	Text  string        `json:"-"`
	Video *VideoDetails `json:"video,omitempty"`
}

// Loader fetches and extracts content over HTTP.
type Loader struct {
	client    *http.Client
	watchBase string
	logger    *slog.Logger
}

// NewLoader creates a Loader. A nil client gets a 15s timeout.
func NewLoader(client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Loader{
		client:    client,
		watchBase: defaultWatchBase,
		logger:    logger.With("component", "content-loader"),
	}
}

// Load fetches raw and returns its cleaned text.
func (l *Loader) Load(ctx context.Context, raw string) (Document, error) {
	if !isHTTPURL(raw) {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}

	var (
		doc Document
		err error
	)
	if IsYouTubeURL(raw) {
		doc, err = l.loadYouTube(ctx, raw)
	} else {
		doc, err = l.loadWebsite(ctx, raw)
	}
	if err != nil {
		return Document{}, err
	}

	doc.Text = Clean(doc.Text)
	if doc.Text == "" {
		return Document{}, fmt.Errorf("load %s: %w", raw, ErrNoContent)
	}

	l.logger.Info("content loaded", "kind", doc.Kind, "url", raw, "words", CountWords(doc.Text))
	return doc, nil
}

// VideoDetails fetches metadata for a YouTube URL.
func (l *Loader) VideoDetails(ctx context.Context, raw string) (VideoDetails, error) {
	id := ExtractVideoID(raw)
	if id == "" {
		return VideoDetails{}, fmt.Errorf("%w: no video ID in %q", ErrUnsupportedURL, raw)
	}

	watch := l.watchBase + "/watch?v=" + url.QueryEscape(id)
	page, err := l.fetch(ctx, watch)
	if err != nil {
		return VideoDetails{}, fmt.Errorf("fetch video page: %w", err)
	}

	v := parseWatchPage(page)
	v.ID = id
	if v.Title == "" {
		return VideoDetails{}, fmt.Errorf("video %s: %w", id, ErrNoContent)
	}
	return v, nil
}

func (l *Loader) loadYouTube(ctx context.Context, raw string) (Document, error) {
	v, err := l.VideoDetails(ctx, raw)
	if err != nil {
		return Document{}, fmt.Errorf("extract YouTube content: %w", err)
	}
	desc := v.Description
	if desc == "" {
		desc = "No description available."
	}
	return Document{
		URL:   raw,
		Kind:  KindYouTube,
		Title: v.Title,
		Text:  v.Title + "\n\n" + desc,
		Video: &v,
	}, nil
}

func (l *Loader) loadWebsite(ctx context.Context, raw string) (Document, error) {
	page, err := l.fetch(ctx, raw)
	if err != nil {
		return Document{}, fmt.Errorf("extract website content: %w", err)
	}

	title, body := extractArticle(page)
	if title == "" {
		title = "Web Content"
	}
	return Document{
		URL:   raw,
		Kind:  KindWebsite,
		Title: title,
		Text:  title + "\n\n" + body,
	}, nil
}

func (l *Loader) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: status %d", target, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}
	return doc, nil
}

// extractArticle returns the page title and its main text: the contents of
// article/main/content containers, or failing that every paragraph longer
// than 50 characters.
func extractArticle(doc *goquery.Document) (title, body string) {
	doc.Find("script, style, nav, header, footer, iframe").Remove()

	title = squash(doc.Find("title").First().Text())

	var parts []string
	doc.Find("article, main, div.content, div.post").Each(func(_ int, s *goquery.Selection) {
		if t := squash(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if t := squash(s.Text()); len([]rune(t)) > minParagraphLen {
				parts = append(parts, t)
			}
		})
	}
	return title, strings.Join(parts, " ")
}

func parseWatchPage(doc *goquery.Document) VideoDetails {
	meta := func(sel, attr string) string {
		v, _ := doc.Find(sel).First().Attr(attr)
		return strings.TrimSpace(v)
	}

	v := VideoDetails{
		Title:       meta(`meta[property="og:title"]`, "content"),
		Description: meta(`meta[property="og:description"]`, "content"),
		Thumbnail:   meta(`meta[property="og:image"]`, "content"),
		Channel:     meta(`[itemprop="author"] [itemprop="name"]`, "content"),
		ChannelURL:  meta(`[itemprop="author"] [itemprop="url"]`, "href"),
		Duration:    parseISODuration(meta(`meta[itemprop="duration"]`, "content")),
		UploadDate:  meta(`meta[itemprop="uploadDate"]`, "content"),
	}
	if v.Title == "" {
		v.Title = strings.TrimSuffix(squash(doc.Find("title").First().Text()), " - YouTube")
	}
	if v.Channel == "" {
		v.Channel = "Unknown Channel"
	}
	if v.UploadDate == "" {
		v.UploadDate = meta(`meta[itemprop="datePublished"]`, "content")
	}
	if n, err := strconv.ParseInt(meta(`meta[itemprop="interactionCount"]`, "content"), 10, 64); err == nil {
		v.Views = n
	}
	return v
}

// parseISODuration parses the PT#H#M#S form used in video metadata.
func parseISODuration(s string) time.Duration {
	rest, ok := strings.CutPrefix(s, "PT")
	if !ok {
		return 0
	}
	var total time.Duration
	num := 0
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H':
			total += time.Duration(num) * time.Hour
			num = 0
		case r == 'M':
			total += time.Duration(num) * time.Minute
			num = 0
		case r == 'S':
			total += time.Duration(num) * time.Second
			num = 0
		default:
			return 0
		}
	}
	return total
}
