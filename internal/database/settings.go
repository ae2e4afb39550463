package database

import (
	"database/sql"
	"encoding/json"
)

// GetSettings returns the settings singleton, creating an empty one on
// first access.
func (db *DB) GetSettings() (*Settings, error) {
	row := db.conn.QueryRow("SELECT thesis, kpis, report_sections FROM settings WHERE id = 1")
	var thesis, kpisRaw, sectionsRaw string
	err := row.Scan(&thesis, &kpisRaw, &sectionsRaw)
	if err == sql.ErrNoRows {
		if _, err := db.conn.Exec("INSERT INTO settings (id) VALUES (1)"); err != nil {
			return nil, err
		}
		return &Settings{KPIs: []KPI{}, ReportSections: []ReportSection{}}, nil
	}
	if err != nil {
		return nil, err
	}

	s := &Settings{Thesis: thesis, KPIs: []KPI{}, ReportSections: []ReportSection{}}
	if err := json.Unmarshal([]byte(kpisRaw), &s.KPIs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sectionsRaw), &s.ReportSections); err != nil {
		return nil, err
	}
	return s, nil
}

// PutSettings replaces the settings singleton.
func (db *DB) PutSettings(s Settings) (*Settings, error) {
	if s.KPIs == nil {
		s.KPIs = []KPI{}
	}
	if s.ReportSections == nil {
		s.ReportSections = []ReportSection{}
	}
	kpisRaw, err := json.Marshal(s.KPIs)
	if err != nil {
		return nil, err
	}
	sectionsRaw, err := json.Marshal(s.ReportSections)
	if err != nil {
		return nil, err
	}

	if _, err := db.conn.Exec(
		`INSERT INTO settings (id, thesis, kpis, report_sections) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET thesis = excluded.thesis,
		kpis = excluded.kpis, report_sections = excluded.report_sections`,
		s.Thesis, string(kpisRaw), string(sectionsRaw),
	); err != nil {
		return nil, err
	}
	return db.GetSettings()
}
