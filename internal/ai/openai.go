package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"app/internal/metrics"
)

// OpenAIGenerator generates platform variants through the OpenAI chat
// completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	apiKey string
}

// NewOpenAIGenerator creates an OpenAI-backed generator. An empty API key
// yields a generator that reports itself unavailable.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		apiKey: apiKey,
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Available() bool { return g.apiKey != "" }

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	model := g.model
	if req.Model != "" {
		model = req.Model
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildPrompt(req),
				},
			},
			MaxTokens:   1024,
			Temperature: 0.7,
		},
	)
	metrics.AIRequestDuration.WithLabelValues(g.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("openai completion for %s: %w", req.Platform, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion for %s: empty response", req.Platform)
	}
	return resp.Choices[0].Message.Content, nil
}
