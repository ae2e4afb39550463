package database

import (
	"reflect"
	"testing"
)

func TestDefaultColumnWidth(t *testing.T) {
	cases := []struct {
		header string
		want   int
	}{
		{"CIF", 120},
		{"Una cabecera bastante larga", 270},
		{"Una cabecera absurdamente larga que no cabe en ningun monitor razonable", 600},
	}
	for _, c := range cases {
		if got := DefaultColumnWidth(c.header); got != c.want {
			t.Errorf("DefaultColumnWidth(%q) = %d, want %d", c.header, got, c.want)
		}
	}
}

func TestInsertColumnStripsMismatchedFields(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	prompt := "Resume la empresa"
	formula := "=a+b"
	style := OutputStyleSingle

	// A text column carrying ai and formula attributes loses them.
	col, err := db.InsertColumn(SearchColumn{
		ProjectID:       p.ID,
		Field:           "nombre",
		Header:          "Nombre social",
		Type:            ColumnTypeText,
		Prompt:          &prompt,
		Formula:         &formula,
		InputColumnIDs:  []string{"x"},
		UseOnlyRelevant: true,
		OutputStyle:     &style,
	})
	if err != nil {
		t.Fatal(err)
	}
	if col.Prompt != nil || col.Formula != nil || col.InputColumnIDs != nil ||
		col.UseOnlyRelevant || col.OutputStyle != nil {
		t.Errorf("type-mismatched fields survived: %+v", col)
	}

	// A formula column keeps its formula but loses ai attributes.
	col, err = db.InsertColumn(SearchColumn{
		ProjectID: p.ID,
		Field:     "margen",
		Header:    "Margen",
		Type:      ColumnTypeFormula,
		Formula:   &formula,
		Prompt:    &prompt,
	})
	if err != nil {
		t.Fatal(err)
	}
	if col.Formula == nil || *col.Formula != formula {
		t.Errorf("formula column lost its formula: %+v", col)
	}
	if col.Prompt != nil {
		t.Errorf("formula column kept a prompt: %+v", col)
	}
}

func TestInsertColumnDefaultsWidth(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	col, err := db.InsertColumn(SearchColumn{
		ProjectID: p.ID, Field: "cif", Header: "CIF", Type: ColumnTypeText,
	})
	if err != nil {
		t.Fatal(err)
	}
	if col.Width != 120 {
		t.Errorf("width = %d, want 120", col.Width)
	}
}

func TestColumnsOrderedByCreation(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	for _, f := range []string{"a", "b", "c"} {
		if _, err := db.InsertColumn(SearchColumn{
			ProjectID: p.ID, Field: f, Header: f, Type: ColumnTypeText,
		}); err != nil {
			t.Fatal(err)
		}
	}

	cols, err := db.GetColumnsForProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	var fields []string
	for _, c := range cols {
		fields = append(fields, c.Field)
	}
	if !reflect.DeepEqual(fields, []string{"a", "b", "c"}) {
		t.Errorf("fields = %v", fields)
	}
}

func TestUpdateColumnTriState(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	prompt := "Valora la empresa"
	style := OutputStyleRatingAndReason
	pair := "pair-col"
	col, err := db.InsertColumn(SearchColumn{
		ProjectID: p.ID, Field: "nota", Header: "Nota", Type: ColumnTypeAI,
		Prompt: &prompt, OutputStyle: &style, PairColumnID: &pair,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Patch without the ai fields leaves them untouched.
	width := 200
	got, err := db.UpdateColumn(col.ID, ColumnPatch{Width: &width})
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 200 {
		t.Errorf("width = %d", got.Width)
	}
	if got.Prompt == nil || *got.Prompt != prompt || got.PairColumnID == nil {
		t.Errorf("unpatched fields changed: %+v", got)
	}

	// Explicit null clears the pair column.
	got, err = db.UpdateColumn(col.ID, ColumnPatch{PairColumnIDSet: true})
	if err != nil {
		t.Fatal(err)
	}
	if got.PairColumnID != nil {
		t.Errorf("pairColumnId should be cleared, got %v", *got.PairColumnID)
	}
}

func TestUpdateColumnDropsAIFieldsOnTextColumn(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	col, err := db.InsertColumn(SearchColumn{
		ProjectID: p.ID, Field: "nombre", Header: "Nombre", Type: ColumnTypeText,
	})
	if err != nil {
		t.Fatal(err)
	}

	prompt := "no aplica"
	got, err := db.UpdateColumn(col.ID, ColumnPatch{Prompt: &prompt, PromptSet: true})
	if err != nil {
		t.Fatal(err)
	}
	if got.Prompt != nil {
		t.Errorf("text column accepted a prompt: %v", *got.Prompt)
	}
}

func TestUpdateColumnMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.UpdateColumn("nope", ColumnPatch{})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil for missing column, got %+v", got)
	}
}
