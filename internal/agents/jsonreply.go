package agents

import (
	"encoding/json"
	"strings"
)

// parseObject decodes a completion that was asked to answer in JSON.
// Markdown code fences are stripped; anything that is not a JSON object is
// returned as {"raw": text}.
func parseObject(text string) map[string]any {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil || out == nil {
		return map[string]any{"raw": text}
	}
	return out
}
