package aicolumn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
)

// ErrBadModelOutput means the model's response could not be parsed in a
// context that requires structured output. Unlike the rating write-back,
// suggestion generation has no raw-text fallback: handlers surface this
// as a 502.
var ErrBadModelOutput = errors.New("la respuesta del modelo no es JSON válido")

// ColumnRef identifies one selectable column for the suggestion prompt.
type ColumnRef struct {
	ID     string `json:"id"`
	Header string `json:"header"`
}

// Suggestion is one column the model considers relevant for a prompt.
type Suggestion struct {
	ColumnID string `json:"columnId"`
	Header   string `json:"header"`
	Reason   string `json:"reason"`
}

const suggestSystemPrompt = `Eres un asistente que ayuda a elegir qué columnas de datos son relevantes para responder un prompt de usuario.
Te doy el prompt del usuario y la lista de columnas disponibles (cada una con id y nombre).
Responde ÚNICAMENTE con un JSON válido, sin markdown ni texto extra, con este formato:
{"suggestions":[{"columnId":"<id>","header":"<nombre>","reason":"<breve razón en una frase>"}, ...]}

Incluye solo las columnas que consideres relevantes para el prompt. Si ninguna lo es, devuelve {"suggestions":[]}.
Sé conciso en "reason" (máximo una frase).`

// SuggestColumns asks the model which of the given columns are relevant
// to a prompt. Suggestions referencing unknown column ids are dropped.
func (r *Resolver) SuggestColumns(ctx context.Context, prompt string, columns []ColumnRef) ([]Suggestion, error) {
	var list []string
	for _, c := range columns {
		list = append(list, fmt.Sprintf("%s: %s", c.ID, c.Header))
	}

	userPrompt := fmt.Sprintf(
		"Prompt del usuario:\n%s\n\nColumnas disponibles (id: nombre):\n%s\n\nResponde solo con el JSON.",
		strings.TrimSpace(prompt), strings.Join(list, "\n"),
	)

	text, err := llm.GenerateWithRetry(ctx, r.provider, suggestSystemPrompt+"\n\n"+userPrompt, maxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("generating suggestions: %w", err)
	}

	var parsed struct {
		Suggestions []struct {
			ColumnID string `json:"columnId"`
			Header   string `json:"header"`
			Reason   string `json:"reason"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(llm.StripFences(text)), &parsed); err != nil {
		return nil, ErrBadModelOutput
	}

	headerByID := make(map[string]string, len(columns))
	for _, c := range columns {
		headerByID[c.ID] = c.Header
	}

	suggestions := []Suggestion{}
	for _, s := range parsed.Suggestions {
		header, known := headerByID[s.ColumnID]
		if s.ColumnID == "" || !known {
			continue
		}
		if header == "" {
			header = s.Header
		}
		suggestions = append(suggestions, Suggestion{
			ColumnID: s.ColumnID,
			Header:   header,
			Reason:   strings.TrimSpace(s.Reason),
		})
	}
	return suggestions, nil
}
