package server

import (
	"log"
	"net/http"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respondError(w, http.StatusInternalServerError, "Error loading settings")
		return
	}
	respond(w, http.StatusOK, settings)
}

// handlePutSettings merges the supplied fields over the stored settings;
// fields left out of the body keep their current value.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Thesis         *string                  `json:"thesis"`
		KPIs           []database.KPI           `json:"kpis"`
		ReportSections []database.ReportSection `json:"reportSections"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	settings, err := s.db.GetSettings()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respondError(w, http.StatusInternalServerError, "Error saving settings")
		return
	}

	if body.Thesis != nil {
		settings.Thesis = *body.Thesis
	}
	if body.KPIs != nil {
		settings.KPIs = body.KPIs
	}
	if body.ReportSections != nil {
		settings.ReportSections = body.ReportSections
	}

	updated, err := s.db.PutSettings(*settings)
	if err != nil {
		log.Printf("saving settings: %v", err)
		respondError(w, http.StatusInternalServerError, "Error saving settings")
		return
	}
	respond(w, http.StatusOK, updated)
}
