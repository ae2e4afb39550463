package database

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// InsertDiscoveryProject creates a sector analysis project.
func (db *DB) InsertDiscoveryProject(name string, sector, context *string) (*DiscoveryProject, error) {
	id := uuid.NewString()
	if _, err := db.conn.Exec(
		"INSERT INTO discovery_projects (id, name, sector, context) VALUES (?, ?, ?, ?)",
		id, name, sector, context,
	); err != nil {
		return nil, err
	}
	return db.GetDiscoveryProject(id)
}

// GetDiscoveryProject returns a discovery project by id, or nil if it
// doesn't exist.
func (db *DB) GetDiscoveryProject(id string) (*DiscoveryProject, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, sector, context, report, created_at FROM discovery_projects WHERE id = ?", id,
	)
	var p DiscoveryProject
	var report *string
	err := row.Scan(&p.ID, &p.Name, &p.Sector, &p.Context, &report, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if report != nil && *report != "" {
		if err := json.Unmarshal([]byte(*report), &p.Report); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// GetAllDiscoveryProjects returns all discovery projects, newest first.
func (db *DB) GetAllDiscoveryProjects() ([]DiscoveryProject, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, sector, context, report, created_at FROM discovery_projects ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []DiscoveryProject
	for rows.Next() {
		var p DiscoveryProject
		var report *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Sector, &p.Context, &report, &p.CreatedAt); err != nil {
			return nil, err
		}
		if report != nil && *report != "" {
			if err := json.Unmarshal([]byte(*report), &p.Report); err != nil {
				return nil, err
			}
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateDiscoveryReport stores a generated report on a project.
func (db *DB) UpdateDiscoveryReport(id string, report []ReportSectionResult) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		"UPDATE discovery_projects SET report = ? WHERE id = ?", string(raw), id,
	)
	return err
}
