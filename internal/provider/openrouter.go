package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "deepseek/deepseek-chat:free"
)

// OpenRouter talks to the OpenRouter chat completions API. DeepSeek and the
// hosted Llama models are both reached through it.
type OpenRouter struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenRouter(cfg Config) *OpenRouter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenRouterModel
	}
	name := cfg.Name
	if name == "" {
		name = KindOpenRouter
	}
	return &OpenRouter{
		name:    name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: httpTimeout(cfg)},
	}
}

func (s *OpenRouter) Name() string {
	return s.name
}

func (s *OpenRouter) Model() string {
	return s.model
}

func (s *OpenRouter) GenerateText(ctx context.Context, prompt string) Outcome {
	if s.apiKey == "" {
		return Failed("OpenRouter API key required")
	}

	body := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return Failed("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/chat/completions", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return Failed("failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	httpReq.Header.Set("X-Title", "pereval")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Failed("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Failed("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errText)))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Failed("failed to decode response: %v", err)
	}

	if len(chatResp.Choices) == 0 {
		return Failed("empty response from API")
	}

	return Succeeded(chatResp.Choices[0].Message.Content)
}
