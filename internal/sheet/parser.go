package sheet

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var numericRe = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)

// ParseCSV parses CSV/TXT content. Both ',' and ';' act as delimiters,
// '"' quotes fields, and numeric-looking values (comma or dot decimals)
// are coerced to numbers.
func ParseCSV(data []byte) *Sheet {
	text := string(data)
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return &Sheet{}
	}

	headers := splitCSVLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.Trim(h, `"`)
	}

	rows := make([]map[string]any, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i >= len(values) {
				row[h] = nil
				continue
			}
			v := strings.Trim(values[i], `"`)
			switch {
			case v == "":
				row[h] = nil
			case numericRe.MatchString(v):
				n, _ := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
				row[h] = n
			default:
				row[h] = v
			}
		}
		rows = append(rows, row)
	}

	return &Sheet{Columns: headers, Rows: rows}
}

// splitCSVLine splits one line on unquoted ',' or ';' delimiters.
func splitCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case (c == ',' || c == ';') && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))
	return result
}

// ParseExcel parses the first worksheet of an xlsx file. Merged regions
// are expanded so every covered cell carries the region's value before
// rows are extracted; mark-block collapse depends on seeing the repeated
// value in each physical row.
func ParseExcel(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Sheet{}, nil
	}
	name := sheets[0]

	raw, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(raw) == 0 {
		return &Sheet{}, nil
	}

	if err := expandMergedCells(f, name, raw); err != nil {
		return nil, err
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]any, 0, len(raw)-1)
	for _, line := range raw[1:] {
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i >= len(line) || line[i] == "" {
				row[h] = nil
			} else if numericRe.MatchString(line[i]) {
				n, _ := strconv.ParseFloat(strings.ReplaceAll(line[i], ",", "."), 64)
				row[h] = n
			} else {
				row[h] = line[i]
			}
		}
		rows = append(rows, row)
	}

	return &Sheet{Columns: headers, Rows: rows}, nil
}

// expandMergedCells copies each merged region's value into every cell of
// the region within the extracted row grid.
func expandMergedCells(f *excelize.File, sheetName string, rows [][]string) error {
	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return fmt.Errorf("reading merged cells: %w", err)
	}

	for _, m := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		value := m.GetCellValue()
		if value == "" {
			continue
		}
		for r := startRow; r <= endRow; r++ {
			if r-1 >= len(rows) {
				break
			}
			for c := startCol; c <= endCol; c++ {
				for c-1 >= len(rows[r-1]) {
					rows[r-1] = append(rows[r-1], "")
				}
				rows[r-1][c-1] = value
			}
		}
	}
	return nil
}
