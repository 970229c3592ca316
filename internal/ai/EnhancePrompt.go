package ai

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"sitecraft/internal/ai/prompts"
	aiutils "sitecraft/internal/ai/utils"
)

var plainText = bluemonday.StrictPolicy()

type enhancePromptOutput struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
}

// EnhancePrompt expands a brief idea into a detailed website description.
func (g *Generator) EnhancePrompt(ctx context.Context, idea string) (string, error) {
	fullPrompt, systemPrompt := prompts.GetEnhancePrompt(idea)

	llmOutput, err := g.complete(ctx, "prompt enhancement", systemPrompt, fullPrompt, 0.9)
	if err != nil {
		return "", err
	}

	var out enhancePromptOutput
	if err := aiutils.DecodeJSONObject(llmOutput, &out); err != nil {
		log.Printf("Info: prompt enhancement output is not JSON (%v), using raw text.", err)
		out.EnhancedPrompt = llmOutput
	}

	enhanced := strings.TrimSpace(html.UnescapeString(plainText.Sanitize(out.EnhancedPrompt)))
	if enhanced == "" {
		return "", fmt.Errorf("%w for prompt enhancement", ErrEmptyResponse)
	}
	return enhanced, nil
}
