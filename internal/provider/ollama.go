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
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// Ollama calls a self-hosted Ollama server through /api/generate.
type Ollama struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(cfg Config) *Ollama {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	name := cfg.Name
	if name == "" {
		name = KindOllama
	}
	return &Ollama{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: httpTimeout(cfg)},
	}
}

func (s *Ollama) Name() string {
	return s.name
}

func (s *Ollama) Model() string {
	return s.model
}

func (s *Ollama) GenerateText(ctx context.Context, prompt string) Outcome {
	ollamaReq := map[string]interface{}{
		"model":  s.model,
		"prompt": prompt,
		"stream": false,
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return Failed("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/generate", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return Failed("failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Failed("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Failed("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errText)))
	}

	var ollamaResp struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return Failed("failed to decode response: %v", err)
	}
	if ollamaResp.Error != "" {
		return Failed("ollama: %s", ollamaResp.Error)
	}

	return Succeeded(ollamaResp.Response)
}
