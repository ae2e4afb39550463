package server

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/formula"
	"github.com/alvarobaron-emerita/saas-inversion/internal/sheet"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.GetAllSearchProjects()
	if err != nil {
		log.Printf("listing projects: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading projects")
		return
	}
	if projects == nil {
		projects = []database.SearchProject{}
	}
	respond(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.db.InsertSearchProject(strings.TrimSpace(body.Name))
	if err != nil {
		log.Printf("creating project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating project")
		return
	}
	respond(w, http.StatusOK, project)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.db.GetSearchProject(r.PathValue("projectID"))
	if err != nil {
		log.Printf("loading project: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respond(w, http.StatusOK, project)
}

// handleGetData returns a project's columns plus its rows, optionally
// filtered to one status bucket.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	status := r.URL.Query().Get("status")

	if projectID == "" {
		respondError(w, http.StatusBadRequest, "projectId required")
		return
	}

	var statusFilter *string
	if status != "" {
		if status != database.StatusInbox {
			view, err := s.db.GetViewInProject(status, projectID)
			if err != nil {
				log.Printf("validating status: %v", err)
				respondError(w, http.StatusInternalServerError, "Error loading data")
				return
			}
			if view == nil {
				respondError(w, http.StatusBadRequest, "Invalid status (view not found)")
				return
			}
		}
		statusFilter = &status
	}

	columns, err := s.db.GetColumnsForProject(projectID)
	if err != nil {
		log.Printf("loading columns: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading data")
		return
	}
	rows, err := s.db.GetRowsForProject(projectID, statusFilter)
	if err != nil {
		log.Printf("loading rows: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading data")
		return
	}

	if columns == nil {
		columns = []database.SearchColumn{}
	}
	if rows == nil {
		rows = []database.SearchRow{}
	}

	// Formula cells are computed at read time, never stored.
	for _, col := range columns {
		if col.Type != database.ColumnTypeFormula || col.Formula == nil {
			continue
		}
		for i := range rows {
			if rows[i].Data == nil {
				rows[i].Data = map[string]any{}
			}
			rows[i].Data[col.Field] = formula.Evaluate(*col.Formula, rows[i].Data)
		}
	}

	respond(w, http.StatusOK, map[string]any{
		"columns": columns,
		"rows":    rows,
	})
}

// handleUpload ingests a spreadsheet: parse, collapse mark blocks,
// normalize headers, and replace the project's columns and rows.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	projectID := r.FormValue("projectId")
	if projectID != "" {
		project, err := s.db.GetSearchProject(projectID)
		if err != nil {
			log.Printf("loading project: %v", err)
			respondError(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		if project == nil {
			respondError(w, http.StatusNotFound, "Project not found")
			return
		}
	} else {
		name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		project, err := s.db.InsertSearchProject(name)
		if err != nil {
			log.Printf("creating project: %v", err)
			respondError(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		projectID = project.ID
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading file failed")
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	var parsed *sheet.Sheet
	if ext == "csv" || ext == "txt" {
		parsed = sheet.ParseCSV(data)
	} else {
		parsed, err = sheet.ParseExcel(data)
		if err != nil {
			log.Printf("parsing workbook: %v", err)
			respondError(w, http.StatusBadRequest, "could not parse spreadsheet")
			return
		}
	}

	parsed = sheet.CollapseMarkBlocks(parsed)
	originalHeaders := append([]string{}, parsed.Columns...)
	normalized := sheet.Normalize(parsed)

	columns := make([]database.SearchColumn, 0, len(normalized.Columns))
	for i, field := range normalized.Columns {
		colHeader := field
		if i < len(originalHeaders) && originalHeaders[i] != "" {
			colHeader = originalHeaders[i]
		}
		columns = append(columns, database.SearchColumn{
			Field:  field,
			Header: colHeader,
			Type:   database.ColumnTypeText,
		})
	}

	if err := s.db.ReplaceProjectData(projectID, columns, normalized.Rows); err != nil {
		log.Printf("storing upload: %v", err)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"projectId":   projectID,
		"rowCount":    len(normalized.Rows),
		"columnCount": len(normalized.Columns),
	})
}
