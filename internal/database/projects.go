package database

import (
	"database/sql"

	"github.com/google/uuid"
)

// InsertSearchProject creates a search project and returns it.
func (db *DB) InsertSearchProject(name string) (*SearchProject, error) {
	id := uuid.NewString()
	if _, err := db.conn.Exec(
		"INSERT INTO search_projects (id, name) VALUES (?, ?)", id, name,
	); err != nil {
		return nil, err
	}
	return db.GetSearchProject(id)
}

// GetSearchProject returns a project by id, or nil if it doesn't exist.
func (db *DB) GetSearchProject(id string) (*SearchProject, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, created_at FROM search_projects WHERE id = ?", id,
	)
	var p SearchProject
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllSearchProjects returns all projects, newest first.
func (db *DB) GetAllSearchProjects() ([]SearchProject, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, created_at FROM search_projects ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []SearchProject
	for rows.Next() {
		var p SearchProject
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM search_projects", &s.SearchProjects},
		{"SELECT COUNT(*) FROM search_columns", &s.Columns},
		{"SELECT COUNT(*) FROM search_rows", &s.Rows},
		{"SELECT COUNT(*) FROM search_views", &s.Views},
		{"SELECT COUNT(*) FROM discovery_projects", &s.DiscoveryProjects},
		{"SELECT COUNT(*) FROM discovery_projects WHERE report IS NOT NULL", &s.Reports},
	}
	for _, c := range counts {
		if err := db.conn.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}
