// Package aicolumn executes LLM-backed column computations: per-row
// resolution with optional write-back, and input-column suggestions.
package aicolumn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
)

// Caller-visible failures; handlers map these to status codes.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotAIColumn    = errors.New("column is not an AI column")
	ErrNoPrompt       = errors.New("AI column has no prompt")
)

const (
	onlyRelevantInstruction = "\n\nConsidera solo los campos del JSON relevantes para responder."
	conciseSuffix           = "\n\nResponde de forma concisa (1-2 frases)."
	ratingSuffix            = "\n\nResponde ÚNICAMENTE con un JSON válido, sin markdown ni texto extra, con exactamente: {\"rating\": <número del 1 al 10>, \"explanation\": \"<breve explicación en una frase>\"}."

	maxOutputTokens = 1024
)

// Resolver runs AI column computations against the store.
type Resolver struct {
	db       *database.DB
	provider llm.Provider
}

// NewResolver creates a new resolver.
func NewResolver(db *database.DB, provider llm.Provider) *Resolver {
	return &Resolver{db: db, provider: provider}
}

// Resolve computes one AI column for one row. When rowID is non-empty the
// result is merged into that row's data: the row is re-read immediately
// before writing so concurrent runs on other columns of the same row only
// compete field by field, not whole-row.
//
// In rating_and_reason mode the model's JSON is parsed, the rating is
// rounded and clamped to [1, 10], and the explanation lands in the paired
// column's field. A response that fails to parse degrades to storing the
// raw text in the main field; the row write still happens.
func (r *Resolver) Resolve(ctx context.Context, columnID string, rowData map[string]any, rowID string) (string, error) {
	column, err := r.db.GetColumn(columnID)
	if err != nil {
		return "", fmt.Errorf("loading column: %w", err)
	}
	if column == nil {
		return "", ErrColumnNotFound
	}
	if column.Type != database.ColumnTypeAI {
		return "", ErrNotAIColumn
	}
	if column.Prompt == nil || strings.TrimSpace(*column.Prompt) == "" {
		return "", ErrNoPrompt
	}

	contextData, err := r.selectContext(column, rowData)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(*column.Prompt)
	if column.UseOnlyRelevant {
		prompt += onlyRelevantInstruction
	}

	ratingMode := column.OutputStyle != nil &&
		*column.OutputStyle == database.OutputStyleRatingAndReason &&
		column.PairColumnID != nil && *column.PairColumnID != ""

	text, err := r.generate(ctx, prompt, contextData, ratingMode)
	if err != nil {
		return "", err
	}

	if rowID != "" {
		if err := r.writeBack(column, rowID, text, ratingMode); err != nil {
			return "", err
		}
	}
	return text, nil
}

// ResolveAdHoc runs a free prompt against row data without touching any
// column configuration or persisting anything.
func (r *Resolver) ResolveAdHoc(ctx context.Context, prompt string, rowData map[string]any) (string, error) {
	return r.generate(ctx, strings.TrimSpace(prompt), rowData, false)
}

// selectContext applies the column's hard context filter. A non-empty
// inputColumnIds list restricts the row data to those columns' fields
// (unknown ids are silently dropped); otherwise the full row is exposed.
// useOnlyRelevant never changes which fields are sent, only what the
// prompt asks the model to do with them.
func (r *Resolver) selectContext(column *database.SearchColumn, rowData map[string]any) (map[string]any, error) {
	if len(column.InputColumnIDs) == 0 {
		full := make(map[string]any, len(rowData))
		for k, v := range rowData {
			full[k] = v
		}
		return full, nil
	}

	columns, err := r.db.GetColumnsForProject(column.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project columns: %w", err)
	}
	fieldByID := make(map[string]string, len(columns))
	for _, c := range columns {
		fieldByID[c.ID] = c.Field
	}

	allowed := make(map[string]bool, len(column.InputColumnIDs))
	for _, id := range column.InputColumnIDs {
		if field, ok := fieldByID[id]; ok {
			allowed[field] = true
		}
	}

	selected := make(map[string]any)
	for k, v := range rowData {
		if allowed[k] {
			selected[k] = v
		}
	}
	return selected, nil
}

func (r *Resolver) generate(ctx context.Context, prompt string, contextData map[string]any, ratingMode bool) (string, error) {
	if contextData == nil {
		contextData = map[string]any{}
	}
	contextJSON, err := json.MarshalIndent(contextData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling row context: %w", err)
	}

	suffix := conciseSuffix
	if ratingMode {
		suffix = ratingSuffix
	}
	userPrompt := fmt.Sprintf("%s\n\nDatos de la fila (JSON):\n%s%s", prompt, contextJSON, suffix)

	text, err := llm.GenerateWithRetry(ctx, r.provider, userPrompt, maxOutputTokens)
	if err != nil {
		return "", fmt.Errorf("generating column value: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// writeBack merges the computed field(s) into the row's current data and
// stores the result. The row is re-read here rather than trusting the
// caller's copy; other AI columns may have written other fields since the
// request started.
func (r *Resolver) writeBack(column *database.SearchColumn, rowID, text string, ratingMode bool) error {
	row, err := r.db.GetRow(rowID)
	if err != nil {
		return fmt.Errorf("loading row: %w", err)
	}
	if row == nil || row.ProjectID != column.ProjectID {
		// Row gone or from another project: nothing to persist.
		return nil
	}

	data := row.Data
	if data == nil {
		data = map[string]any{}
	}

	if ratingMode {
		rating, explanation, ok := parseRating(text)
		if !ok {
			// Degraded success: keep the raw text, still write the row.
			data[column.Field] = text
		} else {
			if rating != nil {
				data[column.Field] = *rating
			} else {
				data[column.Field] = nil
			}
			pair, err := r.db.GetColumn(*column.PairColumnID)
			if err != nil {
				return fmt.Errorf("loading pair column: %w", err)
			}
			if pair != nil {
				data[pair.Field] = explanation
			}
		}
	} else {
		data[column.Field] = text
	}

	if _, err := r.db.UpdateRow(rowID, nil, data); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	return nil
}

// parseRating parses a rating_and_reason response. The rating is rounded
// and clamped to [1, 10]; a non-numeric rating stays nil and a missing or
// non-string explanation becomes "". ok is false only when the text is
// not valid JSON at all.
func parseRating(text string) (rating *float64, explanation string, ok bool) {
	var parsed struct {
		Rating      any `json:"rating"`
		Explanation any `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(llm.StripFences(text)), &parsed); err != nil {
		log.Printf("rating response is not valid JSON, storing raw text: %v", err)
		return nil, "", false
	}

	if n, isNumber := parsed.Rating.(float64); isNumber {
		r := math.Round(n)
		if r < 1 {
			r = 1
		}
		if r > 10 {
			r = 10
		}
		rating = &r
	}

	if s, isString := parsed.Explanation.(string); isString {
		explanation = strings.TrimSpace(s)
	}
	return rating, explanation, true
}
