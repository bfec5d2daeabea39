package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/gosummary/internal/logging"
)

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsYouTubeURL("https://youtu.be/abc"))
	assert.True(t, IsYouTubeURL("https://m.youtube.com/watch?v=abc"))
	assert.False(t, IsYouTubeURL("https://go.dev/blog"))
	assert.False(t, IsYouTubeURL("::not a url"))
}

func TestExtractVideoID(t *testing.T) {
	cases := map[string]string{
		"https://youtu.be/f6kdp27TYZs":                         "f6kdp27TYZs",
		"https://www.youtube.com/watch?v=f6kdp27TYZs&t=42":     "f6kdp27TYZs",
		"https://youtube.com/embed/f6kdp27TYZs":                "f6kdp27TYZs",
		"https://www.youtube.com/v/f6kdp27TYZs/extra":          "f6kdp27TYZs",
		"https://www.youtube.com/shorts/f6kdp27TYZs":           "f6kdp27TYZs",
		"https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM": "",
		"https://go.dev/watch?v=nope":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractVideoID(in), in)
	}
}

func TestClean(t *testing.T) {
	got := Clean("  Hello,\n\n  world!  <b>café</b> — 100% ")
	assert.Equal(t, "Hello, world! bcaféb  100", got)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 3, CountWords("read this https://example.com/x page"))
	assert.Equal(t, 3, CountWords("visit www.example.com   now please"))
	assert.Equal(t, 0, CountWords("   "))
}

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, 51*time.Minute+27*time.Second, parseISODuration("PT51M27S"))
	assert.Equal(t, time.Hour+2*time.Second, parseISODuration("PT1H2S"))
	assert.Zero(t, parseISODuration(""))
	assert.Zero(t, parseISODuration("PT5X"))
}

func serveFile(t *testing.T, name string) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_WebsiteArticle(t *testing.T) {
	srv := serveFile(t, "article.html")

	doc, err := NewLoader(nil, logging.Discard()).Load(context.Background(), srv.URL+"/post")
	require.NoError(t, err)
	assert.Equal(t, KindWebsite, doc.Kind)
	assert.Equal(t, "Streaming Data Pipelines", doc.Title)
	assert.Equal(t, "Streaming Data Pipelines Pipelines Data flows through the pipeline and into the store.", doc.Text)
	assert.NotContains(t, doc.Text, "tracking")
	assert.NotContains(t, doc.Text, "footer")
	assert.Nil(t, doc.Video)
}

func TestLoad_WebsiteParagraphFallback(t *testing.T) {
	srv := serveFile(t, "paragraphs.html")

	doc, err := NewLoader(nil, logging.Discard()).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotContains(t, doc.Text, "Too short")
	assert.Contains(t, doc.Text, "comfortably longer")
	assert.Contains(t, doc.Text, "threshold!")
}

func TestLoad_YouTube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/watch", r.URL.Path)
		assert.Equal(t, "f6kdp27TYZs", r.URL.Query().Get("v"))
		http.ServeFile(w, r, filepath.Join("testdata", "watch.html"))
	}))
	defer srv.Close()

	l := NewLoader(nil, logging.Discard())
	l.watchBase = srv.URL

	doc, err := l.Load(context.Background(), "https://youtu.be/f6kdp27TYZs")
	require.NoError(t, err)
	assert.Equal(t, KindYouTube, doc.Kind)
	assert.Equal(t, "Go Concurrency Patterns", doc.Title)
	assert.Contains(t, doc.Text, "Rob Pike explains goroutines")

	require.NotNil(t, doc.Video)
	v := *doc.Video
	assert.Equal(t, "f6kdp27TYZs", v.ID)
	assert.Equal(t, "Google for Developers", v.Channel)
	assert.Equal(t, "http://www.youtube.com/@GoogleDevelopers", v.ChannelURL)
	assert.Equal(t, 51*time.Minute+27*time.Second, v.Duration)
	assert.Equal(t, "2012-07-02", v.UploadDate)
	assert.Equal(t, int64(1234567), v.Views)
	assert.Contains(t, v.Thumbnail, "hqdefault.jpg")
}

func TestLoad_UnsupportedURL(t *testing.T) {
	l := NewLoader(nil, logging.Discard())

	for _, in := range []string{"", "ftp://example.com/file", "example.com", "https://www.youtube.com/feed/trending"} {
		_, err := l.Load(context.Background(), in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrUnsupportedURL), in)
	}
}

func TestLoad_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(nil, logging.Discard()).Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestLoad_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	doc, err := NewLoader(nil, logging.Discard()).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Web Content", doc.Title)
}
