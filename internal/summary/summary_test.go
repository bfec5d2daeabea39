package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/gosummary/internal/content"
	"github.com/olehluchkiv/gosummary/internal/llm"
	"github.com/olehluchkiv/gosummary/internal/logging"
)

type fakeLLM struct {
	reply string
	err   error
	calls [][]llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	f.calls = append(f.calls, msgs)
	return f.reply, f.err
}

type fakeLoader struct {
	doc  content.Document
	err  error
	urls []string
}

func (f *fakeLoader) Load(_ context.Context, url string) (content.Document, error) {
	f.urls = append(f.urls, url)
	return f.doc, f.err
}

func newTestService(model *fakeLLM, loader *fakeLoader) *Service {
	s := NewService(model, loader, logging.Discard())
	s.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSummarize(t *testing.T) {
	model := &fakeLLM{reply: "  Data flows through pipelines into stores.  "}
	loader := &fakeLoader{doc: content.Document{
		URL: "https://example.com/post", Kind: content.KindWebsite, Title: "Pipelines",
		Text: "Pipelines Data flows through the pipeline",
	}}
	s := newTestService(model, loader)

	got, err := s.Summarize(context.Background(), Request{
		URL: "https://example.com/post", Language: "Hindi", Length: "Short (150 words)",
	})
	require.NoError(t, err)

	assert.Equal(t, "Data flows through pipelines into stores.", got.Text)
	assert.Equal(t, "Pipelines", got.Title)
	assert.Equal(t, content.KindWebsite, got.Kind)
	assert.Equal(t, 6, got.WordCount)
	assert.Equal(t, "Hindi", got.Language)
	assert.Equal(t, 2026, got.CreatedAt.Year())

	require.Len(t, model.calls, 1)
	require.Len(t, model.calls[0], 1)
	prompt := model.calls[0][0].Content
	assert.Contains(t, prompt, "directly in Hindi")
	assert.Contains(t, prompt, "exactly 150 words long")
	assert.Contains(t, prompt, "Content: Pipelines Data flows through the pipeline")
	assert.Contains(t, prompt, "Devanagari for Hindi")
}

func TestSummarize_Validation(t *testing.T) {
	cases := map[string]Request{
		"missing url":    {Language: "English", Length: DefaultLength},
		"not a url":      {URL: "example dot com", Language: "English", Length: DefaultLength},
		"bad language":   {URL: "https://example.com", Language: "Klingon", Length: DefaultLength},
		"bad length":     {URL: "https://example.com", Language: "English", Length: "Epic (9000 words)"},
		"empty language": {URL: "https://example.com", Length: DefaultLength},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			model := &fakeLLM{}
			loader := &fakeLoader{}
			_, err := newTestService(model, loader).Summarize(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Empty(t, loader.urls)
			assert.Empty(t, model.calls)
		})
	}
}

func TestSummarize_LoaderError(t *testing.T) {
	loader := &fakeLoader{err: content.ErrNoContent}
	model := &fakeLLM{}

	_, err := newTestService(model, loader).Summarize(context.Background(), Request{
		URL: "https://example.com", Language: "English", Length: DefaultLength,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrNoContent))
	assert.Empty(t, model.calls)
}

func TestSummarize_EmptyModelReply(t *testing.T) {
	loader := &fakeLoader{doc: content.Document{Title: "t", Text: "words"}}
	_, err := newTestService(&fakeLLM{reply: "   "}, loader).Summarize(context.Background(), Request{
		URL: "https://example.com", Language: "English", Length: DefaultLength,
	})
	require.Error(t, err)
}

func TestAsk(t *testing.T) {
	model := &fakeLLM{reply: "Pipelines move data.\n"}
	s := newTestService(model, &fakeLoader{})

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "What is this about?"},
		{Role: llm.RoleAssistant, Content: "Data pipelines."},
	}
	got, err := s.Ask(context.Background(), AskRequest{
		Summary: "Data flows through pipelines.", Language: "Spanish",
		Question: "What moves data?", History: history,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pipelines move data.", got)

	require.Len(t, model.calls, 1)
	msgs := model.calls[0]
	require.Len(t, msgs, 3)
	assert.Equal(t, history, msgs[:2])
	assert.Equal(t,
		"Based on this summary:\n\nData flows through pipelines.\n\nPlease provide the answer in Spanish.\n\nAnswer this question: What moves data?",
		msgs[2].Content)
}

func TestAsk_RequiresQuestionAndSummary(t *testing.T) {
	s := newTestService(&fakeLLM{}, &fakeLoader{})

	_, err := s.Ask(context.Background(), AskRequest{Summary: "s", Language: "English"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = s.Ask(context.Background(), AskRequest{Question: "q", Language: "English"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestOptions(t *testing.T) {
	assert.Len(t, Languages, 13)
	code, ok := LanguageCode("Telugu")
	assert.True(t, ok)
	assert.Equal(t, "te", code)
	_, ok = LanguageCode("english")
	assert.False(t, ok)

	n, ok := WordCount(DefaultLength)
	assert.True(t, ok)
	assert.Equal(t, 250, n)
}
