package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
)

func validColumnType(t string) bool {
	return t == database.ColumnTypeText || t == database.ColumnTypeFormula || t == database.ColumnTypeAI
}

func validOutputStyle(s string) bool {
	return s == database.OutputStyleSingle || s == database.OutputStyleRatingAndReason
}

func validPinned(p string) bool {
	return p == "left" || p == "right"
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID       string   `json:"projectId"`
		Field           string   `json:"field"`
		Header          string   `json:"header"`
		Type            string   `json:"type"`
		Prompt          *string  `json:"prompt"`
		Formula         *string  `json:"formula"`
		InputColumnIDs  []string `json:"inputColumnIds"`
		UseOnlyRelevant bool     `json:"useOnlyRelevant"`
		OutputStyle     *string  `json:"outputStyle"`
		PairColumnID    *string  `json:"pairColumnId"`
		Width           int      `json:"width"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if body.ProjectID == "" || body.Field == "" || body.Header == "" || body.Type == "" {
		respondError(w, http.StatusBadRequest, "projectId, field, header, type required")
		return
	}
	if !validColumnType(body.Type) {
		respondError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	if body.OutputStyle != nil && !validOutputStyle(*body.OutputStyle) {
		respondError(w, http.StatusBadRequest, "Invalid outputStyle")
		return
	}

	project, err := s.db.GetSearchProject(body.ProjectID)
	if err != nil {
		log.Printf("loading project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating column")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	col, err := s.db.InsertColumn(database.SearchColumn{
		ProjectID:       body.ProjectID,
		Field:           body.Field,
		Header:          body.Header,
		Type:            body.Type,
		Prompt:          body.Prompt,
		Formula:         body.Formula,
		InputColumnIDs:  body.InputColumnIDs,
		UseOnlyRelevant: body.UseOnlyRelevant,
		OutputStyle:     body.OutputStyle,
		PairColumnID:    body.PairColumnID,
		Width:           body.Width,
	})
	if err != nil {
		log.Printf("creating column: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating column")
		return
	}
	respond(w, http.StatusOK, col)
}

// handleUpdateColumn applies a sparse patch. Raw messages are used so a
// field set to null is distinguishable from a field left out.
func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	columnID := r.PathValue("columnID")

	var fields map[string]json.RawMessage
	if !decodeBody(w, r, &fields) {
		return
	}

	var patch database.ColumnPatch

	if raw, ok := fields["pinned"]; ok {
		var pinned *string
		if err := json.Unmarshal(raw, &pinned); err != nil || (pinned != nil && !validPinned(*pinned)) {
			respondError(w, http.StatusBadRequest, "Invalid pinned value")
			return
		}
		patch.Pinned = pinned
		patch.PinnedSet = true
	}
	if raw, ok := fields["width"]; ok {
		var width int
		if err := json.Unmarshal(raw, &width); err != nil || width < 50 {
			respondError(w, http.StatusBadRequest, "Invalid width")
			return
		}
		patch.Width = &width
	}
	if raw, ok := fields["hidden"]; ok {
		var hidden bool
		if err := json.Unmarshal(raw, &hidden); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid hidden value")
			return
		}
		patch.Hidden = &hidden
	}
	if raw, ok := fields["prompt"]; ok {
		var prompt string
		if err := json.Unmarshal(raw, &prompt); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid prompt")
			return
		}
		patch.Prompt = &prompt
		patch.PromptSet = true
	}
	if raw, ok := fields["inputColumnIds"]; ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid inputColumnIds")
			return
		}
		patch.InputColumnIDs = ids
		patch.InputColumnIDsSet = true
	}
	if raw, ok := fields["useOnlyRelevant"]; ok {
		var use bool
		if err := json.Unmarshal(raw, &use); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid useOnlyRelevant value")
			return
		}
		patch.UseOnlyRelevant = &use
	}
	if raw, ok := fields["outputStyle"]; ok {
		var style *string
		if err := json.Unmarshal(raw, &style); err != nil || (style != nil && !validOutputStyle(*style)) {
			respondError(w, http.StatusBadRequest, "Invalid outputStyle")
			return
		}
		patch.OutputStyle = style
		patch.OutputStyleSet = true
	}
	if raw, ok := fields["pairColumnId"]; ok {
		var pair *string
		if err := json.Unmarshal(raw, &pair); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid pairColumnId")
			return
		}
		patch.PairColumnID = pair
		patch.PairColumnIDSet = true
	}

	col, err := s.db.UpdateColumn(columnID, patch)
	if err != nil {
		log.Printf("updating column: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating column")
		return
	}
	if col == nil {
		respondError(w, http.StatusNotFound, "Column not found")
		return
	}
	respond(w, http.StatusOK, col)
}
