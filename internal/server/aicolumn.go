package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/alvarobaron-emerita/saas-inversion/internal/aicolumn"
)

// handleAIColumn resolves an AI cell. With a columnId the column's stored
// prompt and context configuration drive the call and the result is
// written back to the row; without one the request's prompt is used
// directly and nothing is persisted.
func (s *Server) handleAIColumn(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var body struct {
		Prompt   string         `json:"prompt"`
		RowData  map[string]any `json:"rowData"`
		ColumnID string         `json:"columnId"`
		RowID    string         `json:"rowId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if body.ColumnID != "" {
		result, err := s.resolver.Resolve(r.Context(), body.ColumnID, body.RowData, body.RowID)
		if err != nil {
			switch {
			case errors.Is(err, aicolumn.ErrColumnNotFound):
				respondError(w, http.StatusNotFound, "Column not found")
			case errors.Is(err, aicolumn.ErrNotAIColumn), errors.Is(err, aicolumn.ErrNoPrompt):
				respondError(w, http.StatusBadRequest, err.Error())
			default:
				log.Printf("resolving ai column: %v", err)
				respondError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		respond(w, http.StatusOK, map[string]any{"result": result})
		return
	}

	if body.Prompt == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	result, err := s.resolver.ResolveAdHoc(r.Context(), body.Prompt, body.RowData)
	if err != nil {
		log.Printf("resolving prompt: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]any{"result": result})
}

func (s *Server) handleSuggestColumns(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var body struct {
		Prompt  string               `json:"prompt"`
		Columns []aicolumn.ColumnRef `json:"columns"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Prompt == "" || len(body.Columns) == 0 {
		respondError(w, http.StatusBadRequest, "prompt and columns required")
		return
	}

	suggestions, err := s.resolver.SuggestColumns(r.Context(), body.Prompt, body.Columns)
	if err != nil {
		if errors.Is(err, aicolumn.ErrBadModelOutput) {
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		log.Printf("suggesting columns: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []aicolumn.Suggestion{}
	}
	respond(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
