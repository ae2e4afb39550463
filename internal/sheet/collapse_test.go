package sheet

import (
	"reflect"
	"testing"
)

func TestCollapseNoMarkColumnPassesThrough(t *testing.T) {
	s := &Sheet{
		Columns: []string{"Nombre social", "CIF"},
		Rows: []map[string]any{
			{"Nombre social": "Acme", "CIF": "B123"},
		},
	}
	out := CollapseMarkBlocks(s)
	if out != s {
		t.Errorf("expected sheet to pass through unchanged")
	}
}

func TestCollapseGroupsByMark(t *testing.T) {
	s := &Sheet{
		Columns: []string{"Mark", "Nombre social", "Telefono"},
		Rows: []map[string]any{
			{"Mark": "x", "Nombre social": "Acme", "Telefono": "911"},
			{"Mark": nil, "Nombre social": nil, "Telefono": "912"},
			{"Mark": nil, "Nombre social": nil, "Telefono": nil},
			{"Mark": "x", "Nombre social": "Beta", "Telefono": nil},
		},
	}
	out := CollapseMarkBlocks(s)

	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 collapsed rows, got %d", len(out.Rows))
	}

	first := out.Rows[0]
	if first["Nombre social"] != "Acme" {
		t.Errorf("single value should stay scalar, got %v", first["Nombre social"])
	}
	phones, ok := first["Telefono"].([]any)
	if !ok {
		t.Fatalf("multiple values should become an array, got %T", first["Telefono"])
	}
	if !reflect.DeepEqual(phones, []any{"911", "912"}) {
		t.Errorf("array values out of order: %v", phones)
	}
	if first[mergedRowsHeader] != float64(3) {
		t.Errorf("expected merged row count 3, got %v", first[mergedRowsHeader])
	}

	second := out.Rows[1]
	if second["Telefono"] != nil {
		t.Errorf("column with no values should be nil, got %v", second["Telefono"])
	}
	if second[mergedRowsHeader] != float64(1) {
		t.Errorf("expected merged row count 1, got %v", second[mergedRowsHeader])
	}
}

func TestCollapseLeadingUnmarkedRowsFormOwnBlock(t *testing.T) {
	s := &Sheet{
		Columns: []string{"mark", "Nombre social"},
		Rows: []map[string]any{
			{"mark": nil, "Nombre social": "Orphan"},
			{"mark": "1", "Nombre social": "Acme"},
		},
	}
	out := CollapseMarkBlocks(s)
	if len(out.Rows) != 2 {
		t.Fatalf("expected leading unmarked rows to survive as their own block, got %d rows", len(out.Rows))
	}
	if out.Rows[0]["Nombre social"] != "Orphan" {
		t.Errorf("leading block lost its data: %v", out.Rows[0])
	}
}

func TestCollapseMarkHeaderMatchIsCaseInsensitive(t *testing.T) {
	s := &Sheet{
		Columns: []string{"  MARK ", "Nombre social"},
		Rows: []map[string]any{
			{"  MARK ": "x", "Nombre social": "Acme"},
			{"  MARK ": nil, "Nombre social": "Acme 2"},
		},
	}
	out := CollapseMarkBlocks(s)
	if len(out.Rows) != 1 {
		t.Errorf("expected marker header match despite case and padding, got %d rows", len(out.Rows))
	}
}

func TestCollapseArrayCellsDecompose(t *testing.T) {
	s := &Sheet{
		Columns: []string{"mark", "Telefono"},
		Rows: []map[string]any{
			{"mark": "x", "Telefono": []any{"911", nil, "912"}},
			{"mark": nil, "Telefono": "913"},
		},
	}
	out := CollapseMarkBlocks(s)
	got, ok := out.Rows[0]["Telefono"].([]any)
	if !ok {
		t.Fatalf("expected array, got %T", out.Rows[0]["Telefono"])
	}
	want := []any{"911", "912", "913"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollapseIsIdempotent(t *testing.T) {
	s := &Sheet{
		Columns: []string{"mark", "Telefono"},
		Rows: []map[string]any{
			{"mark": "x", "Telefono": "911"},
			{"mark": nil, "Telefono": "912"},
			{"mark": "x", "Telefono": nil},
		},
	}
	once := CollapseMarkBlocks(s)
	twice := CollapseMarkBlocks(once)

	if len(once.Rows) != len(twice.Rows) {
		t.Fatalf("row count changed on second collapse: %d vs %d", len(once.Rows), len(twice.Rows))
	}
	for i := range once.Rows {
		for _, col := range []string{"Telefono"} {
			if !reflect.DeepEqual(once.Rows[i][col], twice.Rows[i][col]) {
				t.Errorf("row %d column %s changed: %v vs %v", i, col, once.Rows[i][col], twice.Rows[i][col])
			}
		}
	}
}

func TestIsEmptyCell(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, true},
		{"", true},
		{"   ", true},
		{"x", false},
		{float64(0), false},
	}
	for _, c := range cases {
		if got := IsEmptyCell(c.in); got != c.want {
			t.Errorf("IsEmptyCell(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
