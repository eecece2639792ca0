package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseLinesJSON parses the JSON array of text fragments returned by an LLM
func parseLinesJSON(text string) ([]string, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON array boundaries - look for first [ and last ]
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	text = text[startIdx : endIdx+1]

	var fragments []string
	if err := json.Unmarshal([]byte(text), &fragments); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return CleanLines(fragments), nil
}

// CleanLines trims each fragment and drops the empty ones
func CleanLines(fragments []string) []string {
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		lines = append(lines, f)
	}
	return lines
}
