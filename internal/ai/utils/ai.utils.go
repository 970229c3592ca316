package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONOutput strips the markdown fence models often wrap JSON in.
func CleanJSONOutput(llmOutput string) string {
	cleaned := strings.TrimSpace(llmOutput)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// DecodeJSONObject decodes llmOutput into v, first as-is and then with any
// surrounding fence removed.
func DecodeJSONObject(llmOutput string, v any) error {
	err := json.Unmarshal([]byte(llmOutput), v)
	if err == nil {
		return nil
	}
	if errCleaned := json.Unmarshal([]byte(CleanJSONOutput(llmOutput)), v); errCleaned != nil {
		return fmt.Errorf("failed to parse LLM JSON output: %w", err)
	}
	return nil
}
