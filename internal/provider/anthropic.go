package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 4096
)

// Anthropic calls the Messages API and joins every text block of the reply.
type Anthropic struct {
	name   string
	model  string
	hasKey bool
	client anthropic.Client
}

func NewAnthropic(cfg Config) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	name := cfg.Name
	if name == "" {
		name = KindAnthropic
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(httpTimeout(cfg)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		name:   name,
		model:  model,
		hasKey: cfg.APIKey != "",
		client: anthropic.NewClient(opts...),
	}
}

func (s *Anthropic) Name() string {
	return s.name
}

func (s *Anthropic) Model() string {
	return s.model
}

func (s *Anthropic) GenerateText(ctx context.Context, prompt string) Outcome {
	if !s.hasKey {
		return Failed("Anthropic API key required")
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: defaultAnthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Failed("request failed: %v", err)
	}

	var sb strings.Builder
	found := false
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return Failed("empty response from API")
	}

	return Succeeded(sb.String())
}
