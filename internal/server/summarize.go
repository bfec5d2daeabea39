package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olehluchkiv/gosummary/internal/auth"
	"github.com/olehluchkiv/gosummary/internal/content"
	"github.com/olehluchkiv/gosummary/internal/export"
	"github.com/olehluchkiv/gosummary/internal/llm"
	"github.com/olehluchkiv/gosummary/internal/summary"
)

type shareView struct {
	WhatsApp string `json:"whatsapp"`
	Text     string `json:"text"`
	Preview  string `json:"preview"`
}

type summaryResponse struct {
	Summary  summary.Summary `json:"summary"`
	Mermaid  string          `json:"mermaid"`
	Share    shareView       `json:"share"`
	Messages []llm.Message   `json:"messages"`
}

func newShareView(sum summary.Summary) shareView {
	return shareView{
		WhatsApp: export.WhatsAppLink(sum.Title, sum.Text, sum.URL),
		Text:     export.ShareText(sum.Title, sum.Text, sum.URL),
		Preview:  export.Preview(sum.Text),
	}
}

func (s *Server) summaryResponse(sess auth.Session) summaryResponse {
	sum := *sess.Summary
	msgs := sess.Messages
	if msgs == nil {
		msgs = []llm.Message{}
	}
	return summaryResponse{
		Summary:  sum,
		Mermaid:  s.mindmaps.Describe(mindmapRequest(sum.Text, sess.Dark, "")).Mermaid,
		Share:    newShareView(sum),
		Messages: msgs,
	}
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summary.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "Please provide a URL to proceed.", "")
		return
	}

	sum, err := s.summarizer.Summarize(r.Context(), req)
	if err != nil {
		status, msg := summarizeErrorStatus(err)
		if status >= 500 {
			s.logger.Error("summarize failed", "url", req.URL, "error", err)
		}
		writeError(w, status, msg, "")
		return
	}

	pdf, err := export.PDF(export.Report{
		Summary:     sum.Text,
		URL:         sum.URL,
		Language:    sum.Language,
		Length:      sum.Length,
		GeneratedAt: sum.CreatedAt,
	})
	if err != nil && !errors.Is(err, export.ErrUnsupportedText) {
		s.logger.Warn("pdf generation failed", "error", err)
	}

	var sess auth.Session
	s.updateSession(r, func(st *auth.Session) {
		st.Summary = &sum
		st.Language = sum.Language
		st.Length = sum.Length
		st.Messages = nil
		st.Audio = nil
		st.PDF = pdf
		sess = *st
	})

	writeJSON(w, http.StatusOK, s.summaryResponse(sess))
}

func summarizeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, summary.ErrInvalidRequest), errors.Is(err, content.ErrUnsupportedURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, content.ErrNoContent):
		return http.StatusUnprocessableEntity, "No readable content was found at that URL."
	default:
		return http.StatusBadGateway, "An error occurred: " + err.Error()
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.summaryResponse(sess))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	answer, err := s.summarizer.Ask(r.Context(), summary.AskRequest{
		Summary:  sess.Summary.Text,
		Language: sess.Language,
		Question: strings.TrimSpace(req.Question),
		History:  sess.Messages,
	})
	if err != nil {
		if errors.Is(err, summary.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "Please ask a question.", "")
			return
		}
		s.logger.Error("chat failed", "error", err)
		writeError(w, http.StatusBadGateway, "An error occurred: "+err.Error(), "")
		return
	}

	var msgs []llm.Message
	stale := false
	s.updateSession(r, func(st *auth.Session) {
		// A summarize that finished while the LLM answered owns the session now.
		if st.Summary != sess.Summary {
			stale = true
			return
		}
		st.Messages = append(st.Messages,
			llm.Message{Role: llm.RoleUser, Content: req.Question},
			llm.Message{Role: llm.RoleAssistant, Content: answer})
		msgs = append([]llm.Message(nil), st.Messages...)
	})
	if stale {
		writeError(w, http.StatusConflict, "The summary changed while answering. Please ask again.", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"answer": answer, "messages": msgs})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}

	pdf := sess.PDF
	if pdf == nil {
		var err error
		pdf, err = export.PDF(export.Report{
			Summary:     sess.Summary.Text,
			URL:         sess.Summary.URL,
			Language:    sess.Summary.Language,
			Length:      sess.Summary.Length,
			GeneratedAt: sess.Summary.CreatedAt,
		})
		if errors.Is(err, export.ErrUnsupportedText) {
			writeError(w, http.StatusUnprocessableEntity, "Could not create the PDF: "+err.Error(),
				"PDF export supports Western European scripts only. Copy the summary text instead.")
			return
		}
		if err != nil {
			s.logger.Error("pdf generation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Could not create the PDF.", "")
			return
		}
		s.updateSession(r, func(st *auth.Session) {
			if st.Summary == sess.Summary {
				st.PDF = pdf
			}
		})
	}

	writeFile(w, "application/pdf", export.PDFFileName(s.now()), pdf)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}

	audio := sess.Audio
	if audio == nil {
		code, _ := summary.LanguageCode(sess.Summary.Language)
		a, err := s.speaker.Synthesize(r.Context(), sess.Summary.Text, code)
		if err != nil {
			s.logger.Error("audio generation failed", "error", err)
			writeError(w, http.StatusBadGateway, "Failed to generate audio. Please try again later.", "")
			return
		}
		audio = &a
		s.updateSession(r, func(st *auth.Session) {
			if st.Summary == sess.Summary {
				st.Audio = audio
			}
		})
	}

	if audio.Fallback {
		w.Header().Set("X-Audio-Language", audio.Language)
	}
	writeFile(w, "audio/mpeg", "", audio.MP3)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newShareView(*sess.Summary))
}

// currentSummary loads the session and requires it to hold a summary.
func (s *Server) currentSummary(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	sess, ok := s.session(r)
	if !ok || sess.Summary == nil {
		writeError(w, http.StatusNotFound, "No summary yet. Summarize a URL first.", "")
		return auth.Session{}, false
	}
	return sess, true
}
