package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pantrytrack/backend/internal/domain"
)

// parseMapping extracts the OCR name -> known name object from a model reply.
// Code fences and surrounding prose are tolerated; null and empty values are dropped.
func parseMapping(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedResponse)
	}

	var raw map[string]*string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	mapping := make(map[string]string, len(raw))
	for ocrName, known := range raw {
		if known == nil {
			continue
		}
		value := strings.TrimSpace(*known)
		if value == "" || strings.EqualFold(value, "null") {
			continue
		}
		mapping[ocrName] = value
	}
	return mapping, nil
}
