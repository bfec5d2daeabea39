// Package pipeline runs the mindmap stages for one request: keyword
// extraction, hierarchy building, graph construction and rendering.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/olehluchkiv/gosummary/internal/diagram"
	"github.com/olehluchkiv/gosummary/internal/keywords"
	"github.com/olehluchkiv/gosummary/internal/mindmap"
)

// FailureHint is shown to users next to a render failure.
const FailureHint = "The mindmap generation requires text with sufficient content to identify key concepts."

// DefaultRenderTimeout bounds a single render call.
const DefaultRenderTimeout = 15 * time.Second

// Config controls a Generator.
type Config struct {
	MaxKeywords   int           // default keywords.DefaultMaxKeywords
	RenderTimeout time.Duration // default DefaultRenderTimeout
}

// Request is everything one mindmap needs; nothing is read from ambient state.
type Request struct {
	Text      string
	Dark      bool
	Timestamp string // optional, qualifies the suggested file name
}

// Result carries every intermediate stage along with the image.
type Result struct {
	Ranking   keywords.Ranking
	Hierarchy mindmap.Hierarchy
	Graph     diagram.Graph
	Mermaid   string
	Image     mindmap.Rendered
}

// Generator is safe for concurrent use; each call owns its transient state.
type Generator struct {
	renderer diagram.Renderer
	cfg      Config
	logger   *slog.Logger
}

// New creates a Generator that renders with r.
func New(r diagram.Renderer, cfg Config, logger *slog.Logger) *Generator {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = keywords.DefaultMaxKeywords
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = DefaultRenderTimeout
	}
	return &Generator{
		renderer: r,
		cfg:      cfg,
		logger:   logger.With("component", "mindmap", "renderer", r.Name()),
	}
}

// Describe runs the CPU-only stages and stops before rendering. It cannot fail.
func (g *Generator) Describe(req Request) Result {
	// Step 1: Rank keywords.
	ranking := keywords.Extract(req.Text, g.cfg.MaxKeywords)
	if ranking.Degraded() {
		g.logger.Debug("tf-idf vocabulary empty, ranked by frequency", "keywords", ranking.Len())
	}

	// Step 2: Arrange the hierarchy.
	h := mindmap.Build(ranking)

	// Step 3: Style the graph.
	graph := diagram.Build(h, mindmap.ThemeFor(req.Dark))

	return Result{
		Ranking:   ranking,
		Hierarchy: h,
		Graph:     graph,
		Mermaid:   diagram.Mermaid(graph, diagram.MermaidOptions{}),
	}
}

// Generate runs every stage. The only error it returns is a
// *diagram.RenderError; on error the result holds no image.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	res := g.Describe(req)

	// Step 4: Render under a bounded wait.
	ctx, cancel := context.WithTimeout(ctx, g.cfg.RenderTimeout)
	defer cancel()

	start := time.Now()
	data, err := g.renderer.Render(ctx, res.Graph)
	if err != nil {
		if !diagram.IsRenderError(err) {
			err = &diagram.RenderError{Backend: g.renderer.Name(), Err: err}
		}
		g.logger.Warn("mindmap render failed", "error", err, "keywords", res.Ranking.Len())
		return res, err
	}

	res.Image = mindmap.Rendered{PNG: data, FileName: mindmap.FileName(req.Timestamp)}
	g.logger.Info("mindmap rendered",
		"keywords", res.Ranking.Len(),
		"nodes", len(res.Graph.Nodes),
		"bytes", len(data),
		"duration", time.Since(start))
	return res, nil
}
