// Package report generates multi-section sector analysis reports and
// answers chat questions about them.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
)

// Caller-visible failures.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNoSector        = errors.New("el proyecto debe tener un sector definido")
)

const sectionMaxTokens = 2048

// defaultSections are used when no section templates are configured.
var defaultSections = []database.ReportSection{
	{ID: "1", Name: "Resumen Ejecutivo", Prompt: "Escribe un resumen ejecutivo del sector."},
	{ID: "2", Name: "Unit Economics y Financieros", Prompt: "Analiza los unit economics y aspectos financieros típicos del sector."},
	{ID: "3", Name: "Tamaño y Segmentación", Prompt: "Describe el tamaño del mercado y su segmentación."},
	{ID: "4", Name: "Cadena de Valor", Prompt: "Explica la cadena de valor del sector."},
	{ID: "5", Name: "Estructura Competitiva", Prompt: "Analiza la estructura competitiva."},
	{ID: "6", Name: "Regulación y Riesgos", Prompt: "Identifica regulación relevante y riesgos."},
	{ID: "7", Name: "Oportunidades", Prompt: "Señala oportunidades de inversión basadas en la tesis."},
}

// Generator produces sector reports section by section.
type Generator struct {
	db       *database.DB
	provider llm.Provider
}

// NewGenerator creates a new report generator.
func NewGenerator(db *database.DB, provider llm.Provider) *Generator {
	return &Generator{db: db, provider: provider}
}

// Analyze generates every configured report section for a discovery
// project, sequentially, and persists the result on the project.
func (g *Generator) Analyze(ctx context.Context, projectID string) ([]database.ReportSectionResult, error) {
	project, err := g.db.GetDiscoveryProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	sector := deref(project.Sector)
	if strings.TrimSpace(sector) == "" {
		return nil, ErrNoSector
	}

	settings, err := g.db.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	sections := settings.ReportSections
	if len(sections) == 0 {
		sections = defaultSections
	}

	results := make([]database.ReportSectionResult, 0, len(sections))
	for _, section := range sections {
		prompt := buildSectionPrompt(section, sector, deref(project.Context), settings.Thesis, settings.KPIs)
		content, err := llm.GenerateWithRetry(ctx, g.provider, prompt, sectionMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("generating section %q: %w", section.Name, err)
		}
		results = append(results, database.ReportSectionResult{
			SectionName: section.Name,
			Content:     content,
		})
		log.Printf("Generated report section: %s", section.Name)
	}

	if err := g.db.UpdateDiscoveryReport(projectID, results); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}
	return results, nil
}

// Chat answers a question about a project's generated report. Stateless:
// the caller supplies the whole conversation each time.
func (g *Generator) Chat(ctx context.Context, projectID string, messages []llm.Message) (string, error) {
	project, err := g.db.GetDiscoveryProject(projectID)
	if err != nil {
		return "", fmt.Errorf("loading project: %w", err)
	}
	if project == nil {
		return "", ErrProjectNotFound
	}

	settings, err := g.db.GetSettings()
	if err != nil {
		return "", fmt.Errorf("loading settings: %w", err)
	}

	system := buildChatSystemPrompt(
		deref(project.Sector),
		deref(project.Context),
		settings.Thesis,
		reportToMarkdown(project.Report),
	)

	text, err := g.provider.Chat(ctx, system, messages)
	if err != nil {
		return "", fmt.Errorf("generating chat response: %w", err)
	}
	return text, nil
}

func reportToMarkdown(report []database.ReportSectionResult) string {
	if len(report) == 0 {
		return "(Sin informe generado aún)"
	}
	var parts []string
	for _, s := range report {
		parts = append(parts, fmt.Sprintf("### %s\n\n%s", s.SectionName, s.Content))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
