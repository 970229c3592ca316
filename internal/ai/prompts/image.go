package prompts

import "fmt"

// GetImagePrompt wraps the user's description for the image model.
func GetImagePrompt(imagePrompt string) string {
	return fmt.Sprintf("Generate an image for a website based on this description: %s. "+
		"No text, watermarks or borders in the image.", imagePrompt)
}
