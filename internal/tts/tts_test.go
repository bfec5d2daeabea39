package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/gosummary/internal/logging"
)

func TestChunk(t *testing.T) {
	assert.Empty(t, Chunk("   ", 200))
	assert.Equal(t, []string{"Hello world. Second sentence!"}, Chunk("Hello   world.\nSecond sentence!", 200))
	assert.Equal(t, []string{"Hello world.", "Second", "sentence!"}, Chunk("Hello world. Second sentence!", 15))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Chunk("abcdefghij", 4))
}

func TestChunk_RespectsLimit(t *testing.T) {
	text := strings.Repeat("पाइपलाइन डेटा को स्टोर में ले जाती है। ", 30)
	chunks := Chunk(text, MaxChunkRunes)
	require.Greater(t, len(chunks), 1)
	var words []string
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), MaxChunkRunes)
		words = append(words, strings.Fields(c)...)
	}
	assert.Equal(t, strings.Fields(text), words)
}

func newTestClient(url string) *Client {
	c := NewClient(url, logging.Discard())
	c.backoff = 5 * time.Millisecond
	return c
}

func TestSynthesize_ConcatenatesChunks(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "hi", q.Get("tl"))
		assert.Equal(t, "tw-ob", q.Get("client"))
		assert.LessOrEqual(t, utf8.RuneCountInString(q.Get("q")), MaxChunkRunes)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3[" + q.Get("idx") + "]"))
	}))
	defer srv.Close()

	text := strings.Repeat("A sentence that is long enough to matter. ", 10)
	audio, err := newTestClient(srv.URL).Synthesize(context.Background(), text, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", audio.Language)
	assert.False(t, audio.Fallback)

	n := int(calls.Load())
	require.Greater(t, n, 1)
	assert.True(t, strings.HasPrefix(string(audio.MP3), "mp3[0]mp3[1]"))
}

func TestSynthesize_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv.URL).Synthesize(context.Background(), "Short text.", "en")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio.MP3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSynthesize_FallsBackToEnglish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tl") != "en" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("english-mp3"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv.URL).Synthesize(context.Background(), "Bonjour.", "te")
	require.NoError(t, err)
	assert.True(t, audio.Fallback)
	assert.Equal(t, "en", audio.Language)
	assert.Equal(t, []byte("english-mp3"), audio.MP3)
}

func TestSynthesize_EnglishFailureIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Synthesize(context.Background(), "Hello.", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestSynthesize_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Synthesize(context.Background(), "Hello.", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty audio")
}

func TestSynthesize_EmptyText(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:0").Synthesize(context.Background(), " \n ", "en")
	assert.True(t, errors.Is(err, ErrEmptyText))
}
