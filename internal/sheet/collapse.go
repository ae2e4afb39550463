package sheet

import "strings"

// mergedRowsHeader is the synthetic column recording how many physical
// rows were merged into each output record.
const mergedRowsHeader = "Filas originales"

var markColumnNames = []string{"mark"}

func findMarkColumn(columns []string) int {
	for i, h := range columns {
		norm := strings.ToLower(strings.TrimSpace(h))
		for _, name := range markColumnNames {
			if norm == name {
				return i
			}
		}
	}
	return -1
}

// collectValues gathers the non-empty values of one column across a
// block's rows, preserving row order and decomposing array cells.
func collectValues(block []map[string]any, col string) []any {
	var values []any
	for _, row := range block {
		v := row[col]
		if IsEmptyCell(v) {
			continue
		}
		if arr, ok := v.([]any); ok {
			for _, item := range arr {
				if !IsEmptyCell(item) {
					values = append(values, item)
				}
			}
		} else {
			values = append(values, v)
		}
	}
	return values
}

func toCellValue(values []any) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return values
	}
}

// CollapseMarkBlocks groups rows by the "Mark" column and consolidates
// each block into a single row. A new block starts at every row whose
// marker cell is non-empty; columns with multiple values across a block
// become arrays. A trailing "Filas originales" column counts the physical
// rows per block. Sheets without a marker column pass through unchanged.
//
// Rows before the first marked row form an unmarked leading block of
// their own rather than being dropped. That matches the source files
// we receive (header junk rows become record zero), so keep it.
func CollapseMarkBlocks(s *Sheet) *Sheet {
	if len(s.Rows) == 0 {
		return s
	}

	markIdx := findMarkColumn(s.Columns)
	if markIdx < 0 {
		return s
	}
	markCol := s.Columns[markIdx]

	var blocks [][]map[string]any
	for _, row := range s.Rows {
		if !IsEmptyCell(row[markCol]) || len(blocks) == 0 {
			blocks = append(blocks, []map[string]any{row})
		} else {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], row)
		}
	}

	columns := append([]string{}, s.Columns...)
	hasMergedHeader := false
	for _, c := range columns {
		if c == mergedRowsHeader {
			hasMergedHeader = true
			break
		}
	}
	if !hasMergedHeader {
		columns = append(columns, mergedRowsHeader)
	}

	rows := make([]map[string]any, 0, len(blocks))
	for _, block := range blocks {
		row := make(map[string]any, len(columns))
		for _, col := range s.Columns {
			row[col] = toCellValue(collectValues(block, col))
		}
		row[mergedRowsHeader] = float64(len(block))
		rows = append(rows, row)
	}

	return &Sheet{Columns: columns, Rows: rows}
}
