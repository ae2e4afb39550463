package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
)

// handleListViews returns a project's views plus per-status row counts.
// The inbox count is always present, even when zero.
func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	project, err := s.db.GetSearchProject(projectID)
	if err != nil {
		log.Printf("loading project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading views")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	views, err := s.db.GetViewsForProject(projectID)
	if err != nil {
		log.Printf("loading views: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading views")
		return
	}
	counts, err := s.db.CountRowsByStatus(projectID)
	if err != nil {
		log.Printf("counting rows: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading views")
		return
	}

	if views == nil {
		views = []database.SearchView{}
	}
	respond(w, http.StatusOK, map[string]any{
		"views":  views,
		"counts": counts,
	})
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	var body struct {
		Name      string `json:"name"`
		SortOrder *int   `json:"sortOrder"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.db.GetSearchProject(projectID)
	if err != nil {
		log.Printf("loading project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating view")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	view, err := s.db.InsertView(projectID, name, body.SortOrder)
	if err != nil {
		log.Printf("creating view: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating view")
		return
	}
	respond(w, http.StatusOK, view)
}

func (s *Server) handleUpdateView(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	viewID := r.PathValue("viewID")

	var body struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sortOrder"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		respondError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	view, err := s.db.GetView(viewID)
	if err != nil {
		log.Printf("loading view: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating view")
		return
	}
	if view == nil || view.ProjectID != projectID {
		respondError(w, http.StatusNotFound, "View not found")
		return
	}

	updated, err := s.db.UpdateView(viewID, body.Name, body.SortOrder)
	if err != nil {
		log.Printf("updating view: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating view")
		return
	}
	respond(w, http.StatusOK, updated)
}

// handleDeleteView removes a view and sends its rows back to the inbox
// in the same transaction.
func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	viewID := r.PathValue("viewID")

	view, err := s.db.GetView(viewID)
	if err != nil {
		log.Printf("loading view: %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting view")
		return
	}
	if view == nil || view.ProjectID != projectID {
		respondError(w, http.StatusNotFound, "View not found")
		return
	}

	if err := s.db.DeleteView(viewID, projectID); err != nil {
		log.Printf("deleting view: %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting view")
		return
	}
	respond(w, http.StatusOK, map[string]any{"ok": true})
}
