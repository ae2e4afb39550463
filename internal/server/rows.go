package server

import (
	"log"
	"net/http"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
)

// validateStatus checks that a status names either the inbox or an
// existing view in the project. Returns false after writing the 400.
func (s *Server) validateStatus(w http.ResponseWriter, status, projectID, message string) bool {
	if status == database.StatusInbox {
		return true
	}
	view, err := s.db.GetViewInProject(status, projectID)
	if err != nil {
		log.Printf("validating status: %v", err)
		respondError(w, http.StatusInternalServerError, "Error validating status")
		return false
	}
	if view == nil {
		respondError(w, http.StatusBadRequest, message)
		return false
	}
	return true
}

func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	rowID := r.PathValue("rowID")

	var body struct {
		Status *string        `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	row, err := s.db.GetRow(rowID)
	if err != nil {
		log.Printf("loading row: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating row")
		return
	}
	if row == nil {
		respondError(w, http.StatusNotFound, "Row not found")
		return
	}

	if body.Status != nil {
		if !s.validateStatus(w, *body.Status, row.ProjectID, "Invalid status (view not found)") {
			return
		}
	}

	updated, err := s.db.UpdateRow(rowID, body.Status, body.Data)
	if err != nil {
		log.Printf("updating row: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating row")
		return
	}
	respond(w, http.StatusOK, updated)
}

// loadBatchRows resolves a batch of row ids and enforces that all exist
// and belong to a single project. Returns nil after writing the error.
func (s *Server) loadBatchRows(w http.ResponseWriter, ids []string) []database.SearchRow {
	if len(ids) == 0 {
		respondError(w, http.StatusBadRequest, "ids required")
		return nil
	}

	rows, err := s.db.GetRowsByIDs(ids)
	if err != nil {
		log.Printf("loading rows: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading rows")
		return nil
	}
	if len(rows) != len(ids) {
		respondError(w, http.StatusNotFound, "Some rows not found")
		return nil
	}
	for _, row := range rows[1:] {
		if row.ProjectID != rows[0].ProjectID {
			respondError(w, http.StatusBadRequest, "Rows must belong to a single project")
			return nil
		}
	}
	return rows
}

// handleBatchCopy duplicates rows into a target status bucket. Copies
// get fresh ids and indexes past the project's current maximum.
func (s *Server) handleBatchCopy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs          []string `json:"ids"`
		TargetStatus string   `json:"targetStatus"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TargetStatus == "" {
		respondError(w, http.StatusBadRequest, "targetStatus required")
		return
	}

	rows := s.loadBatchRows(w, body.IDs)
	if rows == nil {
		return
	}
	projectID := rows[0].ProjectID

	if !s.validateStatus(w, body.TargetStatus, projectID, "Target view not found") {
		return
	}

	maxIndex, err := s.db.MaxRowIndex(projectID)
	if err != nil {
		log.Printf("reading max row index: %v", err)
		respondError(w, http.StatusInternalServerError, "Error copying rows")
		return
	}

	for i, row := range rows {
		_, err := s.db.InsertRow(projectID, maxIndex+1+i, body.TargetStatus, copyRowData(row.Data))
		if err != nil {
			log.Printf("copying row: %v", err)
			respondError(w, http.StatusInternalServerError, "Error copying rows")
			return
		}
	}

	respond(w, http.StatusOK, map[string]any{"ok": true, "copied": len(rows)})
}

func (s *Server) handleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	rows := s.loadBatchRows(w, body.IDs)
	if rows == nil {
		return
	}

	if err := s.db.DeleteRowsByIDs(body.IDs); err != nil {
		log.Printf("deleting rows: %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting rows")
		return
	}
	respond(w, http.StatusOK, map[string]any{"ok": true, "deleted": len(rows)})
}

func copyRowData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
