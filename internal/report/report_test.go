package report

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
)

type fakeProvider struct {
	prompts []string
	systems []string
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return "contenido generado", nil
}

func (p *fakeProvider) Chat(ctx context.Context, system string, messages []llm.Message) (string, error) {
	p.systems = append(p.systems, system)
	return "respuesta", nil
}

func (p *fakeProvider) IsConfigured() bool { return true }

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAnalyzeRequiresSector(t *testing.T) {
	db := openTestDB(t)
	g := NewGenerator(db, &fakeProvider{})

	if _, err := g.Analyze(context.Background(), "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("missing project: %v", err)
	}

	p, err := db.InsertDiscoveryProject("Sin sector", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Analyze(context.Background(), p.ID); !errors.Is(err, ErrNoSector) {
		t.Errorf("missing sector: %v", err)
	}
}

func TestAnalyzeDefaultSections(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{}
	g := NewGenerator(db, provider)

	sector := "Gestión de residuos"
	p, err := db.InsertDiscoveryProject("Residuos", &sector, nil)
	if err != nil {
		t.Fatal(err)
	}

	report, err := g.Analyze(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != len(defaultSections) {
		t.Fatalf("expected %d sections, got %d", len(defaultSections), len(report))
	}
	if report[0].SectionName != "Resumen Ejecutivo" {
		t.Errorf("first section = %q", report[0].SectionName)
	}
	if !strings.Contains(provider.prompts[0], sector) {
		t.Errorf("sector missing from prompt:\n%s", provider.prompts[0])
	}

	// The report is persisted on the project.
	got, err := db.GetDiscoveryProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Report) != len(defaultSections) || got.Report[0].Content != "contenido generado" {
		t.Errorf("persisted report wrong: %+v", got.Report)
	}
}

func TestAnalyzeUsesConfiguredSectionsAndThesis(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{}
	g := NewGenerator(db, provider)

	if _, err := db.PutSettings(database.Settings{
		Thesis: "PYMEs industriales con EBITDA estable",
		ReportSections: []database.ReportSection{
			{ID: "s1", Name: "Competencia", Prompt: "Analiza la competencia del sector."},
		},
	}); err != nil {
		t.Fatal(err)
	}

	sector := "Climatización"
	p, err := db.InsertDiscoveryProject("Clima", &sector, nil)
	if err != nil {
		t.Fatal(err)
	}

	report, err := g.Analyze(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0].SectionName != "Competencia" {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(provider.prompts[0], "Tesis de inversión") ||
		!strings.Contains(provider.prompts[0], "PYMEs industriales") {
		t.Errorf("thesis missing from prompt:\n%s", provider.prompts[0])
	}
}

func TestChatSystemPromptCarriesReport(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{}
	g := NewGenerator(db, provider)

	sector := "Climatización"
	p, err := db.InsertDiscoveryProject("Clima", &sector, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateDiscoveryReport(p.ID, []database.ReportSectionResult{
		{SectionName: "Competencia", Content: "Mercado fragmentado."},
	}); err != nil {
		t.Fatal(err)
	}

	text, err := g.Chat(context.Background(), p.ID, []llm.Message{{Role: "user", Content: "¿Cómo es la competencia?"}})
	if err != nil {
		t.Fatal(err)
	}
	if text != "respuesta" {
		t.Errorf("text = %q", text)
	}

	system := provider.systems[0]
	if !strings.Contains(system, "Mercado fragmentado.") {
		t.Errorf("report missing from system prompt:\n%s", system)
	}
	if !strings.Contains(system, sector) {
		t.Errorf("sector missing from system prompt:\n%s", system)
	}
}

func TestChatWithoutReport(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{}
	g := NewGenerator(db, provider)

	sector := "Climatización"
	p, err := db.InsertDiscoveryProject("Clima", &sector, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.Chat(context.Background(), p.ID, []llm.Message{{Role: "user", Content: "hola"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(provider.systems[0], "(Sin informe generado aún)") {
		t.Errorf("fallback placeholder missing:\n%s", provider.systems[0])
	}
}

func TestReportToMarkdown(t *testing.T) {
	md := reportToMarkdown([]database.ReportSectionResult{
		{SectionName: "A", Content: "uno"},
		{SectionName: "B", Content: "dos"},
	})
	if !strings.Contains(md, "### A") || !strings.Contains(md, "---") {
		t.Errorf("markdown = %q", md)
	}
}
