package database

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// DefaultColumnWidth derives a pixel width from the header length,
// clamped to [120, 600].
func DefaultColumnWidth(header string) int {
	w := len([]rune(header)) * 10
	if w < 120 {
		return 120
	}
	if w > 600 {
		return 600
	}
	return w
}

// InsertColumn creates a column. Type-specific attributes are stripped
// when they don't match the column's type: formula only for formula
// columns, prompt/inputColumnIds/useOnlyRelevant/outputStyle/pairColumnId
// only for ai columns. This is an intentional no-op, not an error.
func (db *DB) InsertColumn(col SearchColumn) (*SearchColumn, error) {
	if col.ID == "" {
		col.ID = uuid.NewString()
	}
	if col.Width == 0 {
		col.Width = DefaultColumnWidth(col.Header)
	}
	if col.Type != ColumnTypeFormula {
		col.Formula = nil
	}
	if col.Type != ColumnTypeAI {
		col.Prompt = nil
		col.InputColumnIDs = nil
		col.UseOnlyRelevant = false
		col.OutputStyle = nil
		col.PairColumnID = nil
	}

	inputIDs, err := marshalInputColumnIDs(col.InputColumnIDs)
	if err != nil {
		return nil, err
	}

	_, err = db.conn.Exec(
		`INSERT INTO search_columns
		(id, project_id, field, header, type, prompt, formula, input_column_ids,
		 use_only_relevant, output_style, pair_column_id, width, pinned, hidden)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		col.ID, col.ProjectID, col.Field, col.Header, col.Type,
		col.Prompt, col.Formula, inputIDs,
		boolToInt(col.UseOnlyRelevant), col.OutputStyle, col.PairColumnID,
		col.Width, col.Pinned, boolToInt(col.Hidden),
	)
	if err != nil {
		return nil, err
	}
	return db.GetColumn(col.ID)
}

// GetColumn returns a column by id, or nil if it doesn't exist.
func (db *DB) GetColumn(id string) (*SearchColumn, error) {
	row := db.conn.QueryRow(selectColumn+" WHERE id = ?", id)
	col, err := scanColumn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return col, nil
}

// GetColumnsForProject returns a project's columns in creation order.
func (db *DB) GetColumnsForProject(projectID string) ([]SearchColumn, error) {
	rows, err := db.conn.Query(
		selectColumn+" WHERE project_id = ? ORDER BY created_at ASC, rowid ASC", projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []SearchColumn
	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *col)
	}
	return columns, rows.Err()
}

// ColumnPatch is a sparse column update. The *Set flags distinguish
// "set to null" from "not supplied".
type ColumnPatch struct {
	Pinned            *string
	PinnedSet         bool
	Width             *int
	Hidden            *bool
	Prompt            *string
	PromptSet         bool
	InputColumnIDs    []string
	InputColumnIDsSet bool
	UseOnlyRelevant   *bool
	OutputStyle       *string
	OutputStyleSet    bool
	PairColumnID      *string
	PairColumnIDSet   bool
}

// UpdateColumn applies a sparse patch to a column and returns the updated
// column, or nil if the column doesn't exist. The ai-only fields (prompt,
// inputColumnIds, useOnlyRelevant, outputStyle, pairColumnId) are silently
// dropped when the column's type is not ai; that is an intentional no-op,
// not an error.
func (db *DB) UpdateColumn(id string, patch ColumnPatch) (*SearchColumn, error) {
	col, err := db.GetColumn(id)
	if err != nil || col == nil {
		return nil, err
	}

	if patch.PinnedSet {
		col.Pinned = patch.Pinned
	}
	if patch.Width != nil {
		col.Width = *patch.Width
	}
	if patch.Hidden != nil {
		col.Hidden = *patch.Hidden
	}
	if col.Type == ColumnTypeAI {
		if patch.PromptSet {
			col.Prompt = patch.Prompt
		}
		if patch.InputColumnIDsSet {
			col.InputColumnIDs = patch.InputColumnIDs
		}
		if patch.UseOnlyRelevant != nil {
			col.UseOnlyRelevant = *patch.UseOnlyRelevant
		}
		if patch.OutputStyleSet {
			col.OutputStyle = patch.OutputStyle
		}
		if patch.PairColumnIDSet {
			col.PairColumnID = patch.PairColumnID
		}
	}

	inputIDs, err := marshalInputColumnIDs(col.InputColumnIDs)
	if err != nil {
		return nil, err
	}

	_, err = db.conn.Exec(
		`UPDATE search_columns SET prompt = ?, input_column_ids = ?,
		 use_only_relevant = ?, output_style = ?, pair_column_id = ?,
		 width = ?, pinned = ?, hidden = ? WHERE id = ?`,
		col.Prompt, inputIDs, boolToInt(col.UseOnlyRelevant),
		col.OutputStyle, col.PairColumnID, col.Width, col.Pinned,
		boolToInt(col.Hidden), id,
	)
	if err != nil {
		return nil, err
	}
	return db.GetColumn(id)
}

const selectColumn = `SELECT id, project_id, field, header, type, prompt, formula,
	input_column_ids, use_only_relevant, output_style, pair_column_id,
	width, pinned, hidden, created_at FROM search_columns`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanColumn(r rowScanner) (*SearchColumn, error) {
	var col SearchColumn
	var inputIDs *string
	var useOnlyRelevant, hidden int
	if err := r.Scan(&col.ID, &col.ProjectID, &col.Field, &col.Header, &col.Type,
		&col.Prompt, &col.Formula, &inputIDs, &useOnlyRelevant, &col.OutputStyle,
		&col.PairColumnID, &col.Width, &col.Pinned, &hidden, &col.CreatedAt); err != nil {
		return nil, err
	}
	col.UseOnlyRelevant = useOnlyRelevant != 0
	col.Hidden = hidden != 0
	if inputIDs != nil && *inputIDs != "" {
		if err := json.Unmarshal([]byte(*inputIDs), &col.InputColumnIDs); err != nil {
			return nil, err
		}
	}
	return &col, nil
}

func marshalInputColumnIDs(ids []string) (*string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
