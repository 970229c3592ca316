package ai

import (
	"context"
	"fmt"
	"log"

	"sitecraft/internal/ai/prompts"
	aiutils "sitecraft/internal/ai/utils"
	"sitecraft/internal/extract"
	"sitecraft/internal/types"
)

// GenerateWebsiteCode turns a website description into html, css and javascript.
func (g *Generator) GenerateWebsiteCode(ctx context.Context, websitePrompt string) (types.Document, error) {
	fullPrompt, systemPrompt := prompts.GetSiteGenerationPrompt(websitePrompt)

	llmOutput, err := g.complete(ctx, "website generation", systemPrompt, fullPrompt, 0.7)
	if err != nil {
		return types.Document{}, err
	}

	var doc types.Document
	if err := aiutils.DecodeJSONObject(llmOutput, &doc); err != nil {
		// Some models ignore JSON mode and answer with fenced blocks or a raw page.
		log.Printf("Info: website generation output is not JSON (%v), extracting code blocks instead.", err)
		doc = extract.Parse(llmOutput)
	}

	if doc.IsEmpty() {
		log.Printf("LLM raw output for website generation: %s", llmOutput)
		return types.Document{}, fmt.Errorf("%w for website generation", ErrEmptyResponse)
	}
	return doc, nil
}
