package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/appshell/internal/bindings"
	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/shell"
	"github.com/conneroisu/appshell/internal/version"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Pages     int       `json:"pages"`
	Sessions  int       `json:"sessions"`
	Timestamp time.Time `json:"timestamp"`
}

// NavResponse is the body of GET /api/nav.
type NavResponse struct {
	Path string `json:"path,omitempty"`
	// Trail lists the labels from the root to the active link.
	Trail []string             `json:"trail,omitempty"`
	Nodes []navigation.NavNode `json:"nodes"`
}

// TitleResponse is the body of GET /api/title.
type TitleResponse struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Found bool   `json:"found"`
}

// PagesResponse is the body of GET /api/pages.
type PagesResponse struct {
	Count int                       `json:"count"`
	Pages []registry.PageDescriptor `json:"pages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleShell renders the shell document for the request path. Unknown
// paths still get the shell, with the not-found title and a 404 status.
func (s *ShellServer) handleShell(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	snap := s.registry.Snapshot()

	nav, err := navigation.Build(snap, s.navOptions(path)...)
	if err != nil {
		s.logger.Error(r.Context(), err, "Building navigation failed", "path", path)
		http.Error(w, "Navigation unavailable", http.StatusInternalServerError)
		return
	}

	opts := s.config.Shell.Options()
	opts.Title = bindings.TitleFor(snap, path)

	status := http.StatusOK
	page, found := snap.Find(path)
	if !found {
		status = http.StatusNotFound
	}

	templ.Handler(shell.Document(opts, nav, page.Content), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *ShellServer) handleNav(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	nav, err := navigation.Build(s.registry.Snapshot(), s.navOptions(path)...)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if nav == nil {
		nav = []navigation.NavNode{}
	}

	s.writeJSON(w, http.StatusOK, NavResponse{Path: path, Trail: navigation.ActiveTrail(nav), Nodes: nav})
}

func (s *ShellServer) handleTitle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "path query parameter is required"})
		return
	}

	snap := s.registry.Snapshot()
	_, found := snap.Find(path)

	s.writeJSON(w, http.StatusOK, TitleResponse{
		Path:  path,
		Title: bindings.TitleFor(snap, path),
		Found: found,
	})
}

func (s *ShellServer) handlePages(w http.ResponseWriter, _ *http.Request) {
	pages := s.registry.Snapshot().Pages()

	s.writeJSON(w, http.StatusOK, PagesResponse{Count: len(pages), Pages: pages})
}

func (s *ShellServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version.GetShortVersion(),
		Pages:     s.registry.Count(),
		Sessions:  s.hub.Count(),
		Timestamp: time.Now(),
	})
}

func (s *ShellServer) navOptions(path string) []navigation.Option {
	return s.config.Pages.NavOptions(path)
}

func (s *ShellServer) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	response, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}
