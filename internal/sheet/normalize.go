package sheet

import (
	"fmt"
	"regexp"
	"strings"
)

// sabiColumnMap maps the SABI export headers we know about to stable
// field identifiers. Unknown headers get a derived id instead.
var sabiColumnMap = map[string]string{
	"Nombre social":                        "nombre",
	"CIF":                                  "cif",
	"CNAE":                                 "cnae",
	"CNAE 2009":                            "cnae",
	"Actividad":                            "actividad",
	"Actividad CNAE":                       "actividad",
	"Fecha constitucion":                   "fecha_constitucion",
	"Facturación":                          "facturacion",
	"Importe Neto de la Cifra de Negocios": "facturacion",
	"Resultado":                            "resultado",
	"Resultado del ejercicio":              "resultado",
	"Nº Empleados":                         "empleados",
	"Numero de empleados":                  "empleados",
	"Empleados":                            "empleados",
	"Provincia":                            "provincia",
	"Municipio":                            "municipio",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9_]`)
)

// toFieldID canonicalizes one header: mapped SABI headers win, anything
// else is lowercased, whitespace becomes underscores, leftover characters
// are stripped and the result is truncated to 30 characters.
func toFieldID(header string) string {
	if mapped, ok := sabiColumnMap[header]; ok {
		return mapped
	}
	id := strings.ToLower(header)
	id = whitespaceRe.ReplaceAllString(id, "_")
	id = invalidRe.ReplaceAllString(id, "")
	if len(id) > 30 {
		id = id[:30]
	}
	if id == "" {
		return fmt.Sprintf("col_%d", len(header))
	}
	return id
}

// Normalize rewrites a sheet's headers to canonical field identifiers and
// rekeys every row accordingly. Collisions are disambiguated with _1, _2,
// ... in first-seen order; missing cell values default to nil. Column
// order is preserved.
func Normalize(s *Sheet) *Sheet {
	assigned := make(map[string]bool, len(s.Columns))
	fieldByHeader := make(map[string]string, len(s.Columns))
	columns := make([]string, 0, len(s.Columns))

	for _, h := range s.Columns {
		id := toFieldID(h)
		final := id
		for counter := 1; assigned[final]; counter++ {
			final = fmt.Sprintf("%s_%d", id, counter)
		}
		assigned[final] = true
		fieldByHeader[h] = final
		columns = append(columns, final)
	}

	rows := make([]map[string]any, 0, len(s.Rows))
	for _, row := range s.Rows {
		newRow := make(map[string]any, len(columns))
		for old, field := range fieldByHeader {
			v, ok := row[old]
			if !ok {
				v = nil
			}
			newRow[field] = v
		}
		rows = append(rows, newRow)
	}

	return &Sheet{Columns: columns, Rows: rows}
}
