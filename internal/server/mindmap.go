package server

import (
	"net/http"
	"strings"

	"github.com/olehluchkiv/gosummary/internal/diagram"
	"github.com/olehluchkiv/gosummary/internal/mindmap"
	"github.com/olehluchkiv/gosummary/internal/pipeline"
)

func mindmapRequest(text string, dark bool, ts string) pipeline.Request {
	return pipeline.Request{Text: text, Dark: dark, Timestamp: ts}
}

func (s *Server) timestamp(r *http.Request) string {
	if ts := r.URL.Query().Get("ts"); ts != "" && mindmap.ValidTimestamp(ts) {
		return ts
	}
	return s.now().Format(mindmap.TimestampLayout)
}

// handleMindmapPNG renders the session's summary.
func (s *Server) handleMindmapPNG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}
	s.renderMindmap(w, r, mindmapRequest(sess.Summary.Text, sess.Dark, s.timestamp(r)))
}

// handleMindmapMermaid returns a standalone Mermaid file for the session's summary.
func (s *Server) handleMindmapMermaid(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSummary(w, r)
	if !ok {
		return
	}
	res := s.mindmaps.Describe(mindmapRequest(sess.Summary.Text, sess.Dark, ""))
	src := diagram.Mermaid(res.Graph, diagram.MermaidOptions{IncludeInit: true})
	name := "mindmap_" + s.timestamp(r) + ".mmd"
	writeFile(w, "text/plain; charset=utf-8", name, []byte(src))
}

// handleMindmapFromText renders arbitrary text without a session.
func (s *Server) handleMindmapFromText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Dark      bool   `json:"dark"`
		Timestamp string `json:"timestamp"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required", "")
		return
	}
	if req.Timestamp != "" && !mindmap.ValidTimestamp(req.Timestamp) {
		req.Timestamp = ""
	}
	s.renderMindmap(w, r, mindmapRequest(req.Text, req.Dark, req.Timestamp))
}

func (s *Server) renderMindmap(w http.ResponseWriter, r *http.Request, req pipeline.Request) {
	res, err := s.mindmaps.Generate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Error generating mindmap: "+err.Error(), pipeline.FailureHint)
		return
	}
	w.Header().Set("X-Mindmap-Keywords", strings.Join(res.Ranking.Terms(), ","))
	writeFile(w, "image/png", res.Image.FileName, res.Image.PNG)
}
