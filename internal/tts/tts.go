// Package tts turns summaries into MP3 audio using the Google Translate
// speech endpoint.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://translate.google.com/translate_tts"
	// MaxChunkRunes is the longest text the endpoint accepts per request.
	MaxChunkRunes = 200

	maxAttempts  = 3
	maxAudioSize = 10 << 20
)

// ErrEmptyText is returned when there is nothing to speak.
var ErrEmptyText = errors.New("tts: empty text")

// Audio is synthesized speech.
type Audio struct {
	MP3      []byte
	Language string // language actually used
	Fallback bool   // true when the requested language failed and English was used
}

// Client calls the speech endpoint, throttled and with retries.
type Client struct {
	http     *http.Client
	endpoint string
	limiter  *rate.Limiter
	backoff  time.Duration
	logger   *slog.Logger
}

// NewClient creates a Client. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
		backoff:  2 * time.Second,
		logger:   logger.With("component", "tts"),
	}
}

// Synthesize speaks text in lang. If lang is not English and synthesis
// fails, it retries once in English.
func (c *Client) Synthesize(ctx context.Context, text, lang string) (Audio, error) {
	chunks := Chunk(text, MaxChunkRunes)
	if len(chunks) == 0 {
		return Audio{}, ErrEmptyText
	}

	c.logger.Info("starting audio generation", "language", lang, "chunks", len(chunks))
	mp3, err := c.speak(ctx, chunks, lang)
	if err == nil {
		return Audio{MP3: mp3, Language: lang}, nil
	}
	if lang == "en" || ctx.Err() != nil {
		return Audio{}, err
	}

	c.logger.Warn("audio generation failed, falling back to English", "language", lang, "error", err)
	mp3, enErr := c.speak(ctx, chunks, "en")
	if enErr != nil {
		return Audio{}, fmt.Errorf("tts: %w (english fallback: %v)", err, enErr)
	}
	return Audio{MP3: mp3, Language: "en", Fallback: true}, nil
}

func (c *Client) speak(ctx context.Context, chunks []string, lang string) ([]byte, error) {
	var out bytes.Buffer
	for i, chunk := range chunks {
		part, err := c.fetchWithRetry(ctx, chunk, lang, i, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("tts chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out.Write(part)
	}
	return out.Bytes(), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			wait := c.backoff * time.Duration(attempt)
			c.logger.Debug("retrying tts request", "attempt", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := c.fetch(ctx, chunk, lang, idx, total)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) fetch(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(chunk))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize))
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty audio response")
	}
	return data, nil
}
