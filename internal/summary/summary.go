// Package summary produces language- and length-controlled summaries of web
// content and answers follow-up questions about them.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olehluchkiv/gosummary/internal/content"
	"github.com/olehluchkiv/gosummary/internal/llm"
)

const summaryPrompt = `Create a comprehensive summary of the following content directly in %[1]s.
The summary should be exactly %[2]d words long.

Content: %[3]s

Requirements:
1. Generate the summary DIRECTLY in %[1]s
2. Make it exactly %[2]d words
3. Maintain natural and fluent language
4. Use appropriate script for the language (e.g., Devanagari for Hindi)
5. Focus on key points and main ideas`

const askPrompt = "Based on this summary:\n\n%s\n\nPlease provide the answer in %s.\n\nAnswer this question: %s"

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// ContentLoader loads the text behind a URL.
type ContentLoader interface {
	Load(ctx context.Context, url string) (content.Document, error)
}

// Request asks for one summary.
type Request struct {
	URL      string `json:"url" validate:"required,http_url"`
	Language string `json:"language" validate:"required,language"`
	Length   string `json:"length" validate:"required,length"`
}

// Summary is a generated summary plus what the UI shows around it.
type Summary struct {
	Text      string                `json:"text"`
	Title     string                `json:"title"`
	URL       string                `json:"url"`
	Kind      content.Kind          `json:"kind"`
	Language  string                `json:"language"`
	Length    string                `json:"length"`
	WordCount int                   `json:"word_count"`
	Video     *content.VideoDetails `json:"video,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// AskRequest is a follow-up question grounded on a summary.
type AskRequest struct {
	Summary  string        `json:"summary" validate:"required"`
	Language string        `json:"language" validate:"required,language"`
	Question string        `json:"question" validate:"required"`
	History  []llm.Message `json:"history,omitempty"`
}

// Service glues the loader and the model together.
type Service struct {
	llm      llm.Completer
	loader   ContentLoader
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service.
func NewService(c llm.Completer, loader ContentLoader, logger *slog.Logger) *Service {
	return &Service{
		llm:      c,
		loader:   loader,
		validate: newValidator(),
		logger:   logger.With("component", "summary"),
		now:      time.Now,
	}
}

// Summarize loads req.URL and asks the model for a summary.
func (s *Service) Summarize(ctx context.Context, req Request) (Summary, error) {
	if err := s.check(req); err != nil {
		return Summary{}, err
	}
	words := mustWordCount(req.Length)

	// Step 1: Load content.
	doc, err := s.loader.Load(ctx, req.URL)
	if err != nil {
		return Summary{}, fmt.Errorf("load content: %w", err)
	}

	// Step 2: Ask the model.
	s.logger.Info("creating summary", "url", req.URL, "kind", doc.Kind, "language", req.Language, "words", words)
	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(summaryPrompt, req.Language, words, doc.Text)},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Summary{}, errors.New("summarize: model returned an empty summary")
	}

	return Summary{
		Text:      text,
		Title:     doc.Title,
		URL:       req.URL,
		Kind:      doc.Kind,
		Language:  req.Language,
		Length:    req.Length,
		WordCount: content.CountWords(text),
		Video:     doc.Video,
		CreatedAt: s.now(),
	}, nil
}

// Ask answers a question about a summary in the requested language.
func (s *Service) Ask(ctx context.Context, req AskRequest) (string, error) {
	if err := s.check(req); err != nil {
		return "", err
	}

	msgs := make([]llm.Message, 0, len(req.History)+1)
	msgs = append(msgs, req.History...)
	msgs = append(msgs, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(askPrompt, req.Summary, req.Language, req.Question),
	})

	answer, err := s.llm.Complete(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}
