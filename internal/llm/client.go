// Package llm talks to an OpenAI-compatible chat completions API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds LLM client configuration.
type Config struct {
	Endpoint    string // API base URL (e.g., https://api.groq.com/openai/v1)
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// LogValue masks the API key when the config is logged via slog.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("model", c.Model),
		slog.String("api_key", "[REDACTED]"),
	)
}

// Roles accepted in a Message.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is what the summarizer needs from a model.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client speaks the OpenAI-compatible chat completions API.
type Client struct {
	cfg     Config
	api     *openai.Client
	logger  *slog.Logger
	backoff time.Duration
}

// NewClient creates an LLM client with the given configuration.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = cfg.Endpoint
	}
	apiCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: retryAfterTransport{base: http.DefaultTransport},
	}

	return &Client{
		cfg:     cfg,
		api:     openai.NewClientWithConfig(apiCfg),
		logger:  logger.With("component", "llm-client"),
		backoff: time.Second,
	}
}

// Complete sends the conversation and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		Temperature: c.cfg.Temperature,
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	// Try up to 2 times (initial + 1 retry on 5xx or 429)
	var lastErr error
	var retryAfter time.Duration
	for attempt := range 2 {
		if attempt > 0 {
			wait := c.backoff
			// Respect Retry-After header if present
			if retryAfter > 0 {
				wait = min(retryAfter, maxRetryAfter)
			}
			c.logger.Debug("retrying LLM request", "attempt", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		retryAfter = 0
		result, err := c.do(context.WithValue(ctx, retryAfterKey{}, &retryAfter), req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("LLM request failed after retries: %w", lastErr)
}

func (c *Client) do(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	c.logger.Debug("sending LLM request", "model", c.cfg.Model, "messages", len(req.Messages))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if status := statusCode(err); status != 0 {
			return "", fmt.Errorf("LLM API error (status %d): %w", status, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("received LLM response", "length", len(content))
	return content, nil
}

// statusCode extracts the HTTP status from go-openai errors.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func isRetryable(err error) bool {
	status := statusCode(err)
	return status == http.StatusTooManyRequests || status >= 500
}

const maxRetryAfter = 30 * time.Second

type retryAfterKey struct{}

// retryAfterTransport copies a Retry-After header into the *time.Duration
// carried by the request context; go-openai does not surface headers on errors.
type retryAfterTransport struct {
	base http.RoundTripper
}

func (t retryAfterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if dst, ok := req.Context().Value(retryAfterKey{}).(*time.Duration); ok {
		*dst = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return resp, nil
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
