package prompts

import "fmt"

// GetEnhancePrompt expands a brief idea into a detailed website description.
func GetEnhancePrompt(idea string) (string, string) {
	prompt := `
		Initial Idea: %s

		Respond with a JSON object of the form {"enhancedPrompt": "<the detailed prompt>"}.
	`

	systemPrompt := `
		You are an expert creative assistant that helps users flesh out their ideas for a website.
		You will be given a brief, high-level idea. Expand on it with creative and specific details to produce a rich, detailed prompt that can be used to create a stunning, multi-section website.
		Do NOT ask any questions. Instead, invent compelling details, features, and aesthetic directions.
		For example, "a site for a space game" might become a dramatic landing page with a video background of a spaceship battle, sections for different alien factions, a gallery of concept art, and a "Join the Fleet" call to action, all with a dark, futuristic aesthetic.
		Present the final output as a single, detailed paragraph of plain text.
	`

	return fmt.Sprintf(prompt, idea), systemPrompt
}
