package ai

import (
	"context"
	"log"
	"strings"

	"sitecraft/internal/ai/prompts"
	aiutils "sitecraft/internal/ai/utils"
)

type applyCodeModificationsOutput struct {
	ModifiedCode string `json:"modifiedCode"`
}

// ApplyCodeModifications applies a natural-language change to originalCode
// and returns the modified combined document. An empty string means the model
// produced no code.
func (g *Generator) ApplyCodeModifications(ctx context.Context, originalCode, modificationRequest string) (string, error) {
	fullPrompt, systemPrompt := prompts.GetSiteCodeChangePrompt(originalCode, modificationRequest)

	llmOutput, err := g.complete(ctx, "code modification", systemPrompt, fullPrompt, 0.3)
	if err != nil {
		return "", err
	}

	var out applyCodeModificationsOutput
	if err := aiutils.DecodeJSONObject(llmOutput, &out); err != nil {
		log.Printf("Info: code modification output is not JSON (%v), using raw text.", err)
		out.ModifiedCode = llmOutput
	}
	return strings.TrimSpace(out.ModifiedCode), nil
}
