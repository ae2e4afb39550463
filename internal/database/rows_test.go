package database

import "testing"

func TestInsertRowDefaults(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	row, err := db.InsertRow(p.ID, 0, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != StatusInbox {
		t.Errorf("status = %q, want inbox", row.Status)
	}
	if row.Data == nil || len(row.Data) != 0 {
		t.Errorf("nil data should round-trip as empty object, got %v", row.Data)
	}
}

func TestRowDataRoundTrip(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	data := map[string]any{
		"nombre":      "Acme",
		"facturacion": float64(1200),
		"telefonos":   []any{"911", "912"},
		"vacio":       nil,
	}
	row, err := db.InsertRow(p.ID, 0, StatusInbox, data)
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.GetRow(row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data["nombre"] != "Acme" || got.Data["facturacion"] != float64(1200) {
		t.Errorf("scalar values wrong: %v", got.Data)
	}
	arr, ok := got.Data["telefonos"].([]any)
	if !ok || len(arr) != 2 {
		t.Errorf("array value wrong: %v", got.Data["telefonos"])
	}
	if v, present := got.Data["vacio"]; !present || v != nil {
		t.Errorf("null value wrong: %v (present %v)", v, present)
	}
}

func TestGetRowsForProjectOrderAndFilter(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	view, err := db.InsertView(p.ID, "Contactar", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.InsertRow(p.ID, 2, StatusInbox, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertRow(p.ID, 0, view.ID, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertRow(p.ID, 1, StatusInbox, nil); err != nil {
		t.Fatal(err)
	}

	all, err := db.GetRowsForProject(p.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	for i, r := range all {
		if r.RowIndex != i {
			t.Errorf("rows out of row_index order: %v", all)
			break
		}
	}

	status := view.ID
	filtered, err := db.GetRowsForProject(p.ID, &status)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Status != view.ID {
		t.Errorf("status filter wrong: %v", filtered)
	}
}

func TestUpdateRowPartial(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)
	view, err := db.InsertView(p.ID, "Descartadas", nil)
	if err != nil {
		t.Fatal(err)
	}

	row, err := db.InsertRow(p.ID, 0, StatusInbox, map[string]any{"nombre": "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	// Status-only update keeps the data.
	status := view.ID
	got, err := db.UpdateRow(row.ID, &status, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != view.ID || got.Data["nombre"] != "Acme" {
		t.Errorf("status-only update wrong: %+v", got)
	}

	// Data-only update keeps the status.
	got, err = db.UpdateRow(row.ID, nil, map[string]any{"nombre": "Beta"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != view.ID || got.Data["nombre"] != "Beta" {
		t.Errorf("data-only update wrong: %+v", got)
	}
}

func TestGetRowsByIDsMissingIDs(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	row, err := db.InsertRow(p.ID, 0, StatusInbox, nil)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := db.GetRowsByIDs([]string{row.ID, "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 resolved row, got %d", len(rows))
	}
}

func TestDeleteRowsByIDs(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	a, _ := db.InsertRow(p.ID, 0, StatusInbox, nil)
	b, _ := db.InsertRow(p.ID, 1, StatusInbox, nil)

	if err := db.DeleteRowsByIDs([]string{a.ID}); err != nil {
		t.Fatal(err)
	}
	rows, err := db.GetRowsForProject(p.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != b.ID {
		t.Errorf("wrong rows survived: %v", rows)
	}
}

func TestMaxRowIndex(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	max, err := db.MaxRowIndex(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if max != -1 {
		t.Errorf("empty project max = %d, want -1", max)
	}

	if _, err := db.InsertRow(p.ID, 7, StatusInbox, nil); err != nil {
		t.Fatal(err)
	}
	max, err = db.MaxRowIndex(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if max != 7 {
		t.Errorf("max = %d, want 7", max)
	}
}

func TestCountRowsByStatusSeedsInbox(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	counts, err := db.CountRowsByStatus(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[StatusInbox] != 0 {
		t.Errorf("inbox should be seeded to 0, got %v", counts)
	}

	view, _ := db.InsertView(p.ID, "Contactar", nil)
	db.InsertRow(p.ID, 0, StatusInbox, nil)
	db.InsertRow(p.ID, 1, view.ID, nil)
	db.InsertRow(p.ID, 2, view.ID, nil)

	counts, err = db.CountRowsByStatus(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[StatusInbox] != 1 || counts[view.ID] != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestReplaceProjectData(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	if _, err := db.InsertColumn(SearchColumn{ProjectID: p.ID, Field: "old", Header: "Old", Type: ColumnTypeText}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertRow(p.ID, 0, StatusInbox, map[string]any{"old": "x"}); err != nil {
		t.Fatal(err)
	}

	err := db.ReplaceProjectData(p.ID,
		[]SearchColumn{{Field: "nombre", Header: "Nombre social", Type: ColumnTypeText}},
		[]map[string]any{{"nombre": "Acme"}, {"nombre": "Beta"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	cols, _ := db.GetColumnsForProject(p.ID)
	if len(cols) != 1 || cols[0].Field != "nombre" {
		t.Errorf("columns not replaced: %v", cols)
	}
	rows, _ := db.GetRowsForProject(p.ID, nil)
	if len(rows) != 2 || rows[0].Data["nombre"] != "Acme" || rows[1].RowIndex != 1 {
		t.Errorf("rows not replaced: %v", rows)
	}
	for _, r := range rows {
		if r.Status != StatusInbox {
			t.Errorf("replaced rows should start in inbox: %v", r)
		}
	}
}
