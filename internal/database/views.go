package database

import (
	"database/sql"

	"github.com/google/uuid"
)

// InsertView creates a view. When sortOrder is nil it defaults to the
// project's current max + 1 so new tabs land at the end.
func (db *DB) InsertView(projectID, name string, sortOrder *int) (*SearchView, error) {
	order := 0
	if sortOrder != nil {
		order = *sortOrder
	} else {
		var max *int
		if err := db.conn.QueryRow(
			"SELECT MAX(sort_order) FROM search_views WHERE project_id = ?", projectID,
		).Scan(&max); err != nil {
			return nil, err
		}
		if max != nil {
			order = *max + 1
		}
	}

	id := uuid.NewString()
	if _, err := db.conn.Exec(
		"INSERT INTO search_views (id, project_id, name, sort_order) VALUES (?, ?, ?, ?)",
		id, projectID, name, order,
	); err != nil {
		return nil, err
	}
	return db.GetView(id)
}

// GetView returns a view by id, or nil if it doesn't exist.
func (db *DB) GetView(id string) (*SearchView, error) {
	row := db.conn.QueryRow(
		"SELECT id, project_id, name, sort_order FROM search_views WHERE id = ?", id,
	)
	var v SearchView
	err := row.Scan(&v.ID, &v.ProjectID, &v.Name, &v.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetViewInProject returns a view only if it belongs to the given
// project; nil otherwise.
func (db *DB) GetViewInProject(id, projectID string) (*SearchView, error) {
	v, err := db.GetView(id)
	if err != nil || v == nil {
		return nil, err
	}
	if v.ProjectID != projectID {
		return nil, nil
	}
	return v, nil
}

// GetViewsForProject returns a project's views ordered by sort_order,
// ties broken by name.
func (db *DB) GetViewsForProject(projectID string) ([]SearchView, error) {
	rows, err := db.conn.Query(
		"SELECT id, project_id, name, sort_order FROM search_views WHERE project_id = ? ORDER BY sort_order ASC, name ASC",
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []SearchView
	for rows.Next() {
		var v SearchView
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.Name, &v.SortOrder); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// UpdateView applies a partial update to a view's name and/or sortOrder.
func (db *DB) UpdateView(id string, name *string, sortOrder *int) (*SearchView, error) {
	v, err := db.GetView(id)
	if err != nil || v == nil {
		return nil, err
	}
	if name != nil {
		v.Name = *name
	}
	if sortOrder != nil {
		v.SortOrder = *sortOrder
	}
	if _, err := db.conn.Exec(
		"UPDATE search_views SET name = ?, sort_order = ? WHERE id = ?",
		v.Name, v.SortOrder, id,
	); err != nil {
		return nil, err
	}
	return db.GetView(id)
}

// DeleteView removes a view and resets every row filed under it back to
// inbox, in one transaction. Rows must never be left pointing at a view
// that no longer exists.
func (db *DB) DeleteView(id, projectID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE search_rows SET status = ? WHERE project_id = ? AND status = ?",
		StatusInbox, projectID, id,
	); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM search_views WHERE id = ?", id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
