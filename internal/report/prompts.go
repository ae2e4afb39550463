package report

import (
	"fmt"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
)

func buildSectionPrompt(section database.ReportSection, sector, context, thesis string, kpis []database.KPI) string {
	var b strings.Builder

	b.WriteString("Eres un analista de inversiones experto en Search Funds y adquisición de PYMEs en España.\n\n")
	b.WriteString("## Contexto\n")
	fmt.Fprintf(&b, "- Sector/nicho a analizar: %s\n", sector)
	if context != "" {
		fmt.Fprintf(&b, "- Contexto adicional: %s\n", context)
	}
	if thesis != "" {
		fmt.Fprintf(&b, "- Tesis de inversión (target): %s\n", thesis)
	}
	if len(kpis) > 0 {
		b.WriteString("\nKPIs objetivo a verificar (el sector debe encajar en estos rangos):\n")
		for _, k := range kpis {
			b.WriteString("- " + k.Name)
			if k.Min != nil {
				fmt.Fprintf(&b, ": min %g", *k.Min)
			}
			if k.Max != nil {
				fmt.Fprintf(&b, ", max %g", *k.Max)
			}
			if k.Unit != "" {
				b.WriteString(" " + k.Unit)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Tarea\n")
	b.WriteString(section.Prompt)
	b.WriteString("\n\nResponde en formato markdown, de forma estructurada y profesional. Máximo 500 palabras para esta sección.")

	return b.String()
}

func buildChatSystemPrompt(sector, context, thesis, reportMarkdown string) string {
	var b strings.Builder

	b.WriteString("Eres un analista de inversiones experto en Search Funds y adquisición de PYMEs en España. ")
	b.WriteString("Tienes acceso al siguiente informe de sector que ya se ha generado.\n\n")
	b.WriteString("## Proyecto\n")
	fmt.Fprintf(&b, "- Sector: %s\n", sector)
	if context != "" {
		fmt.Fprintf(&b, "- Contexto: %s\n", context)
	}

	b.WriteString("\n## Tesis de inversión\n")
	if thesis != "" {
		b.WriteString(thesis)
	} else {
		b.WriteString("(No configurada)")
	}

	b.WriteString("\n\n## Informe generado (contexto que conoces)\n")
	b.WriteString(reportMarkdown)

	b.WriteString("\n\n## Instrucciones\n")
	b.WriteString("- Responde a las preguntas del usuario basándote en el informe y tu conocimiento.\n")
	b.WriteString("- Si la información del informe es suficiente para responder, úsala.\n")
	b.WriteString("- Si el usuario pide modificar o editar el informe, indica claramente qué secciones cambiar y cómo (proporciona el texto propuesto).\n")
	b.WriteString("- Responde en español, de forma profesional y estructurada, usando markdown cuando sea apropiado.")

	return b.String()
}
