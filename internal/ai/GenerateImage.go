package ai

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"sitecraft/internal/ai/prompts"
)

// GenerateImage returns either a remote image URL or a data URI, depending on
// the configured response format.
func (g *Generator) GenerateImage(ctx context.Context, imagePrompt string) (string, error) {
	req := openai.ImageRequest{
		Prompt:         prompts.GetImagePrompt(imagePrompt),
		Model:          g.imageModel,
		N:              1,
		Size:           g.imageSize,
		ResponseFormat: g.imageFormat,
	}

	var resp openai.ImageResponse
	err := g.withRetry(ctx, "image generation", func() error {
		var err error
		resp, err = g.client.CreateImage(ctx, req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("openai image generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%w for image generation", ErrEmptyResponse)
	}
	image := resp.Data[0]
	switch {
	case image.B64JSON != "":
		return "data:image/png;base64," + image.B64JSON, nil
	case image.URL != "":
		return image.URL, nil
	default:
		log.Printf("OpenAI image response carried neither url nor b64_json (created %d)", resp.Created)
		return "", fmt.Errorf("%w for image generation", ErrEmptyResponse)
	}
}
