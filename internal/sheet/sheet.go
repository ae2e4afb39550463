// Package sheet turns uploaded spreadsheet files into the canonical
// column/row shape the store ingests: parsing (xlsx/csv), mark-block
// collapse, and header normalization.
package sheet

import "strings"

// Sheet is a parsed spreadsheet: an ordered header list plus one map per
// row. Cell values are nil, string, float64, or []any whose elements are
// strings or float64s (the array form represents several source rows
// merged into one record).
type Sheet struct {
	Columns []string
	Rows    []map[string]any
}

// IsEmptyCell reports whether a cell value counts as empty: nil or a
// string that is blank after trimming.
func IsEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
