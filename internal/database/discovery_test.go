package database

import "testing"

func TestDiscoveryProjectRoundTrip(t *testing.T) {
	db := openTestDB(t)

	sector := "Gestión de residuos"
	p, err := db.InsertDiscoveryProject("Residuos", &sector, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Sector == nil || *p.Sector != sector || p.Context != nil {
		t.Errorf("project = %+v", p)
	}
	if p.Report != nil {
		t.Errorf("fresh project should have no report: %v", p.Report)
	}

	missing, err := db.GetDiscoveryProject("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("missing project should be nil, got %+v", missing)
	}
}

func TestUpdateDiscoveryReport(t *testing.T) {
	db := openTestDB(t)

	p, err := db.InsertDiscoveryProject("Residuos", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	report := []ReportSectionResult{
		{SectionName: "Visión general del sector", Content: "Texto generado"},
		{SectionName: "Competencia", Content: "Más texto"},
	}
	if err := db.UpdateDiscoveryReport(p.ID, report); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetDiscoveryProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Report) != 2 || got.Report[0].SectionName != "Visión general del sector" {
		t.Errorf("report = %+v", got.Report)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.DiscoveryProjects != 1 || stats.Reports != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
