package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
	"github.com/alvarobaron-emerita/saas-inversion/internal/report"
)

func (s *Server) handleListDiscoveryProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.GetAllDiscoveryProjects()
	if err != nil {
		log.Printf("listing discovery projects: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading projects")
		return
	}
	if projects == nil {
		projects = []database.DiscoveryProject{}
	}
	respond(w, http.StatusOK, projects)
}

func (s *Server) handleCreateDiscoveryProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string  `json:"name"`
		Sector  *string `json:"sector"`
		Context *string `json:"context"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.db.InsertDiscoveryProject(strings.TrimSpace(body.Name), body.Sector, body.Context)
	if err != nil {
		log.Printf("creating discovery project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating project")
		return
	}
	respond(w, http.StatusOK, project)
}

func (s *Server) handleGetDiscoveryProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.db.GetDiscoveryProject(r.PathValue("projectID"))
	if err != nil {
		log.Printf("loading discovery project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respond(w, http.StatusOK, project)
}

// handleAnalyze generates the full sector report for a project and
// persists it before responding.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var body struct {
		ProjectID string `json:"projectId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ProjectID == "" {
		respondError(w, http.StatusBadRequest, "projectId required")
		return
	}

	sections, err := s.reports.Analyze(r.Context(), body.ProjectID)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrProjectNotFound):
			respondError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, report.ErrNoSector):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("generating report: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respond(w, http.StatusOK, map[string]any{"report": sections})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var body struct {
		ProjectID string        `json:"projectId"`
		Messages  []llm.Message `json:"messages"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ProjectID == "" || len(body.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "projectId and messages required")
		return
	}

	content, err := s.reports.Chat(r.Context(), body.ProjectID, body.Messages)
	if err != nil {
		if errors.Is(err, report.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("chat: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]any{"content": content})
}
