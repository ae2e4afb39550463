package llm

import (
	"encoding/json"
	"log"
	"strings"
)

// StripFences removes a leading ``` or ```json marker and a trailing ```
// from a model response, returning the trimmed inner text.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "```json"):
		text = strings.TrimSpace(text[len("```json"):])
	case strings.HasPrefix(text, "```"):
		text = strings.TrimSpace(text[len("```"):])
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-len("```")])
	}
	return text
}

// ParseJSONResponse parses a JSON object response from an LLM, handling
// markdown code blocks. Returns nil if the text is not valid JSON.
func ParseJSONResponse(text string) map[string]any {
	text = StripFences(text)
	if text == "" {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		log.Printf("Failed to parse LLM response as JSON: %v", err)
		return nil
	}

	return result
}
