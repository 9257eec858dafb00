package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/metrics"
)

const (
	anthropicBaseURL          = "https://api.anthropic.com/v1"
	anthropicMessagesEndpoint = "/messages"
	anthropicVersion          = "2023-06-01"
)

// AnthropicGenerator generates platform variants through the Anthropic
// messages API.
type AnthropicGenerator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewAnthropicGenerator creates an Anthropic-backed generator. An empty API
// key yields a generator that reports itself unavailable.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &AnthropicGenerator{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: anthropicBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (g *AnthropicGenerator) Name() string { return "anthropic" }

func (g *AnthropicGenerator) Available() bool { return g.apiKey != "" }

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	model := g.model
	if req.Model != "" {
		model = req.Model
	}

	requestBody := map[string]interface{}{
		"model":      model,
		"max_tokens": 1024,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(req)},
		},
	}
	bodyJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+anthropicMessagesEndpoint, bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	metrics.AIRequestDuration.WithLabelValues(g.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("anthropic request for %s: %w", req.Platform, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return "", fmt.Errorf("anthropic request for %s failed: %s", req.Platform, errorResp.Error.Message)
		}
		return "", fmt.Errorf("anthropic request for %s failed: HTTP %d", req.Platform, resp.StatusCode)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic request for %s: empty response", req.Platform)
}
