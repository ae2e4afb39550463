package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// InsertRow creates a row and returns it. A nil data map is stored as an
// empty object.
func (db *DB) InsertRow(projectID string, rowIndex int, status string, data map[string]any) (*SearchRow, error) {
	id := uuid.NewString()
	raw, err := marshalRowData(data)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = StatusInbox
	}
	if _, err := db.conn.Exec(
		"INSERT INTO search_rows (id, project_id, row_index, status, data) VALUES (?, ?, ?, ?, ?)",
		id, projectID, rowIndex, status, raw,
	); err != nil {
		return nil, err
	}
	return db.GetRow(id)
}

// GetRow returns a row by id, or nil if it doesn't exist.
func (db *DB) GetRow(id string) (*SearchRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, project_id, row_index, status, data FROM search_rows WHERE id = ?", id,
	)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRowsForProject returns a project's rows ordered by row_index,
// optionally filtered by status.
func (db *DB) GetRowsForProject(projectID string, status *string) ([]SearchRow, error) {
	query := "SELECT id, project_id, row_index, status, data FROM search_rows WHERE project_id = ?"
	args := []any{projectID}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY row_index ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// GetRowsByIDs returns the rows matching the given ids, in row_index order.
// Missing ids simply produce fewer rows; callers compare lengths.
func (db *DB) GetRowsByIDs(ids []string) ([]SearchRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		"SELECT id, project_id, row_index, status, data FROM search_rows WHERE id IN (%s) ORDER BY row_index ASC",
		placeholders(len(ids)),
	)
	rows, err := db.conn.Query(query, toAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// UpdateRow applies a partial update: status and/or data. Nil means
// "leave unchanged". Returns the updated row, or nil if it doesn't exist.
func (db *DB) UpdateRow(id string, status *string, data map[string]any) (*SearchRow, error) {
	var sets []string
	var args []any
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *status)
	}
	if data != nil {
		raw, err := marshalRowData(data)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "data = ?")
		args = append(args, raw)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := db.conn.Exec(
			"UPDATE search_rows SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
		); err != nil {
			return nil, err
		}
	}
	return db.GetRow(id)
}

// DeleteRowsByIDs deletes the given rows.
func (db *DB) DeleteRowsByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := db.conn.Exec(
		fmt.Sprintf("DELETE FROM search_rows WHERE id IN (%s)", placeholders(len(ids))),
		toAnySlice(ids)...,
	)
	return err
}

// MaxRowIndex returns the highest row_index in a project, or -1 when the
// project has no rows.
func (db *DB) MaxRowIndex(projectID string) (int, error) {
	var max *int
	if err := db.conn.QueryRow(
		"SELECT MAX(row_index) FROM search_rows WHERE project_id = ?", projectID,
	).Scan(&max); err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// CountRowsByStatus returns the row count per status bucket. The inbox
// bucket is always present, even at zero.
func (db *DB) CountRowsByStatus(projectID string) (map[string]int, error) {
	rows, err := db.conn.Query(
		"SELECT status, COUNT(*) FROM search_rows WHERE project_id = ? GROUP BY status", projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{StatusInbox: 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ReplaceProjectData deletes a project's columns and rows and bulk
// inserts the replacements. Not transactional: a failure mid-insert can
// leave a partial dataset, which a re-upload repairs.
func (db *DB) ReplaceProjectData(projectID string, columns []SearchColumn, rowData []map[string]any) error {
	if _, err := db.conn.Exec("DELETE FROM search_rows WHERE project_id = ?", projectID); err != nil {
		return err
	}
	if _, err := db.conn.Exec("DELETE FROM search_columns WHERE project_id = ?", projectID); err != nil {
		return err
	}
	for _, col := range columns {
		col.ProjectID = projectID
		if _, err := db.InsertColumn(col); err != nil {
			return fmt.Errorf("inserting column %s: %w", col.Field, err)
		}
	}
	for i, data := range rowData {
		if _, err := db.InsertRow(projectID, i, StatusInbox, data); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]SearchRow, error) {
	var result []SearchRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func scanRow(r rowScanner) (*SearchRow, error) {
	var row SearchRow
	var raw string
	if err := r.Scan(&row.ID, &row.ProjectID, &row.RowIndex, &row.Status, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &row.Data); err != nil {
		return nil, err
	}
	return &row, nil
}

func marshalRowData(data map[string]any) (string, error) {
	if data == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
