package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olehluchkiv/gosummary/internal/auth"
	"github.com/olehluchkiv/gosummary/internal/summary"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type optionsResponse struct {
	Languages     []summary.Language `json:"languages"`
	Lengths       []summary.Length   `json:"lengths"`
	Language      string             `json:"language"`
	Length        string             `json:"length"`
	Authenticated bool               `json:"authenticated"`
	Username      string             `json:"username,omitempty"`
	Dark          bool               `json:"dark"`
	HasSummary    bool               `json:"has_summary"`
}

type pageData struct {
	Dark          bool
	Authenticated bool
	Username      string
	Languages     []summary.Language
	Lengths       []summary.Length
	Language      string
	Length        string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(w, pageData{
		Dark:          sess.Dark,
		Authenticated: sess.Authenticated,
		Username:      sess.Username,
		Languages:     summary.Languages,
		Lengths:       summary.Lengths,
		Language:      sess.Language,
		Length:        sess.Length,
	})
	if err != nil {
		s.logger.Error("failed to render template", "error", err)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(r)
	writeJSON(w, http.StatusOK, optionsResponse{
		Languages:     summary.Languages,
		Lengths:       summary.Lengths,
		Language:      sess.Language,
		Length:        sess.Length,
		Authenticated: sess.Authenticated,
		Username:      sess.Username,
		Dark:          sess.Dark,
		HasSummary:    sess.Summary != nil,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := s.users.Register(r.Context(), c.Username, c.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful! Please login."})
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, "Username already exists. Try a different one.", "")
	case errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "Please fill in all fields.", "")
	default:
		s.logger.Error("registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed.", "")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := s.users.Authenticate(r.Context(), c.Username, c.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password.", "")
		return
	default:
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed.", "")
		return
	}

	username := strings.TrimSpace(c.Username)
	// A new ID on login so a session ID known before login is useless after it.
	sess, ok := s.sessions.Rotate(sessionID(r), func(sess *auth.Session) {
		sess.Authenticated = true
		sess.Username = username
	})
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session expired. Please reload the page.", "")
		return
	}
	setSessionCookie(w, sess.ID)
	s.logger.Info("user logged in", "username", username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful!", "username": username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(sessionID(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dark *bool `json:"dark"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
	}

	var dark bool
	s.updateSession(r, func(sess *auth.Session) {
		if req.Dark != nil {
			sess.Dark = *req.Dark
		} else {
			sess.Dark = !sess.Dark
		}
		dark = sess.Dark
	})
	writeJSON(w, http.StatusOK, map[string]bool{"dark": dark})
}
