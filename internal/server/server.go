// Package server exposes the JSON API: search projects with their
// columns, rows, and views; spreadsheet uploads; AI column resolution;
// settings; and discovery reports with chat.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/alvarobaron-emerita/saas-inversion/internal/aicolumn"
	"github.com/alvarobaron-emerita/saas-inversion/internal/config"
	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
	"github.com/alvarobaron-emerita/saas-inversion/internal/report"
)

// Server is the HTTP server for the JSON API.
type Server struct {
	db       *database.DB
	cfg      *config.Config
	provider llm.Provider
	resolver *aicolumn.Resolver
	reports  *report.Generator
	mux      *http.ServeMux
}

// New creates a new Server. provider may be nil when no API key is
// configured; LLM-touching endpoints then return an explicit error.
func New(db *database.DB, cfg *config.Config, provider llm.Provider) *Server {
	s := &Server{
		db:       db,
		cfg:      cfg,
		provider: provider,
		resolver: aicolumn.NewResolver(db, provider),
		reports:  report.NewGenerator(db, provider),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.recoverPanics(s.mux)
}

func (s *Server) routes() {
	// Search: projects, views, grid data
	s.mux.HandleFunc("GET /api/search/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/search/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/search/projects/{projectID}", s.handleGetProject)
	s.mux.HandleFunc("GET /api/search/projects/{projectID}/views", s.handleListViews)
	s.mux.HandleFunc("POST /api/search/projects/{projectID}/views", s.handleCreateView)
	s.mux.HandleFunc("PATCH /api/search/projects/{projectID}/views/{viewID}", s.handleUpdateView)
	s.mux.HandleFunc("DELETE /api/search/projects/{projectID}/views/{viewID}", s.handleDeleteView)
	s.mux.HandleFunc("POST /api/search/upload", s.handleUpload)
	s.mux.HandleFunc("GET /api/search/data", s.handleGetData)

	// Search: columns and rows
	s.mux.HandleFunc("POST /api/search/columns", s.handleCreateColumn)
	s.mux.HandleFunc("PATCH /api/search/columns/{columnID}", s.handleUpdateColumn)
	s.mux.HandleFunc("PATCH /api/search/rows/{rowID}", s.handleUpdateRow)
	s.mux.HandleFunc("POST /api/search/rows/batch-copy", s.handleBatchCopy)
	s.mux.HandleFunc("POST /api/search/rows/batch-delete", s.handleBatchDelete)

	// AI columns
	s.mux.HandleFunc("POST /api/search/ai-column", s.handleAIColumn)
	s.mux.HandleFunc("POST /api/search/ai-column/suggest-columns", s.handleSuggestColumns)

	// Settings
	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	// Discovery
	s.mux.HandleFunc("GET /api/discovery/projects", s.handleListDiscoveryProjects)
	s.mux.HandleFunc("POST /api/discovery/projects", s.handleCreateDiscoveryProject)
	s.mux.HandleFunc("GET /api/discovery/projects/{projectID}", s.handleGetDiscoveryProject)
	s.mux.HandleFunc("POST /api/discovery/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/discovery/chat", s.handleChat)
}

// recoverPanics converts unexpected panics into a logged generic 500;
// internal detail never reaches the client.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				respondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireProvider returns the configured LLM provider or writes the
// explicit "not configured" error.
func (s *Server) requireProvider(w http.ResponseWriter) bool {
	if s.provider == nil {
		respondError(w, http.StatusInternalServerError, "GEMINI_API_KEY no configurada")
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, cfg *config.Config, provider llm.Provider, port int) error {
	srv := New(db, cfg, provider)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
