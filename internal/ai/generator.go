package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"sitecraft/internal/utils"
)

// ErrEmptyResponse is returned when the model answers with nothing usable.
var ErrEmptyResponse = errors.New("openai returned empty response")

// Options configures a Generator.
type Options struct {
	APIKey              string
	BaseURL             string
	ChatModel           string
	ImageModel          string
	ImageSize           string
	ImageResponseFormat string
	RequestsPerMinute   int
}

// Generator is the client for the model-backed generation operations.
type Generator struct {
	client      *openai.Client
	chatModel   string
	imageModel  string
	imageSize   string
	imageFormat string
	limiter     *rate.Limiter
	retryDelay  time.Duration
}

func NewGenerator(opts Options) *Generator {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	g := &Generator{
		client:      openai.NewClientWithConfig(config),
		chatModel:   opts.ChatModel,
		imageModel:  opts.ImageModel,
		imageSize:   opts.ImageSize,
		imageFormat: opts.ImageResponseFormat,
		retryDelay:  2 * time.Second,
	}
	if g.chatModel == "" {
		g.chatModel = openai.GPT4o
	}
	if g.imageModel == "" {
		g.imageModel = openai.CreateImageModelDallE3
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return g
}

// complete runs one JSON-mode chat completion and returns the raw content.
func (g *Generator) complete(ctx context.Context, op, systemPrompt, userPrompt string, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	}

	var resp openai.ChatCompletionResponse
	err := g.withRetry(ctx, op, func() error {
		var err error
		resp, err = g.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion for %s failed: %w", op, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("OpenAI usage for failed %s request: %+v", op, resp.Usage)
		return "", fmt.Errorf("%w for %s", ErrEmptyResponse, op)
	}
	return resp.Choices[0].Message.Content, nil
}

// withRetry paces the call through the limiter and retries it once when the
// failure looks transient.
func (g *Generator) withRetry(ctx context.Context, op string, call func() error) error {
	if err := g.wait(ctx); err != nil {
		return err
	}
	err := call()
	if err == nil || !utils.ShouldRetry(err) {
		return err
	}

	log.Printf("OpenAI call for %s failed, retrying once after delay... Error: %v", op, err)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.retryDelay):
	}
	if err := g.wait(ctx); err != nil {
		return err
	}
	return call()
}

func (g *Generator) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
