// Package server serves the summarizer UI and its JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/olehluchkiv/gosummary/internal/auth"
	"github.com/olehluchkiv/gosummary/internal/pipeline"
	"github.com/olehluchkiv/gosummary/internal/summary"
	"github.com/olehluchkiv/gosummary/internal/tts"
)

// UserStore registers and checks accounts.
type UserStore interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) error
}

// Summarizer creates summaries and answers questions about them.
type Summarizer interface {
	Summarize(ctx context.Context, req summary.Request) (summary.Summary, error)
	Ask(ctx context.Context, req summary.AskRequest) (string, error)
}

// Speaker turns text into audio.
type Speaker interface {
	Synthesize(ctx context.Context, text, lang string) (tts.Audio, error)
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Users      UserStore
	Sessions   *auth.Sessions
	Summarizer Summarizer
	Speaker    Speaker
	Mindmaps   *pipeline.Generator
	Logger     *slog.Logger
	Now        func() time.Time // defaults to time.Now
}

// Server holds the HTTP handlers.
type Server struct {
	users      UserStore
	sessions   *auth.Sessions
	summarizer Summarizer
	speaker    Speaker
	mindmaps   *pipeline.Generator
	page       *template.Template
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Server.
func New(d Deps) (*Server, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		users:      d.Users,
		sessions:   d.Sessions,
		summarizer: d.Summarizer,
		speaker:    d.Speaker,
		mindmaps:   d.Mindmaps,
		page:       tmpl,
		logger:     d.Logger.With("component", "http"),
		now:        now,
	}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Ad-hoc mindmaps need no account.
	r.Post("/api/mindmap", s.handleMindmapFromText)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Get("/api/options", s.handleOptions)
		r.Post("/api/register", s.handleRegister)
		r.Post("/api/login", s.handleLogin)
		r.Post("/api/logout", s.handleLogout)
		r.Post("/api/theme", s.handleTheme)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/api/summarize", s.handleSummarize)
			r.Get("/api/summary", s.handleSummary)
			r.Post("/api/chat", s.handleChat)
			r.Get("/api/mindmap.png", s.handleMindmapPNG)
			r.Get("/api/mindmap.mmd", s.handleMindmapMermaid)
			r.Get("/api/summary.pdf", s.handlePDF)
			r.Get("/api/audio.mp3", s.handleAudio)
			r.Get("/api/share", s.handleShare)
		})
	})

	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context, port int, openBrowser bool) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	s.logger.Info("starting HTTP server", "addr", url)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	if openBrowser {
		openInBrowser(url, s.logger)
	}

	sweep := time.NewTicker(time.Hour)
	defer sweep.Stop()

	// Block until the context is cancelled or the server fails.
	for {
		select {
		case err := <-errCh:
			return err
		case <-sweep.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		case <-ctx.Done():
			s.logger.Info("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("HTTP server shutdown error: %w", err)
			}
			return nil
		}
	}
}

// openInBrowser opens the given URL in the default system browser.
func openInBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		logger.Warn("unsupported platform for opening browser", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}
