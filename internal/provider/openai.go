package provider

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI uses the official SDK against the chat completions endpoint. Any
// OpenAI-compatible server can be targeted through BaseURL.
type OpenAI struct {
	name   string
	model  string
	hasKey bool
	client openai.Client
}

func NewOpenAI(cfg Config) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	name := cfg.Name
	if name == "" {
		name = KindOpenAI
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(httpTimeout(cfg)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		name:   name,
		model:  model,
		hasKey: cfg.APIKey != "",
		client: openai.NewClient(opts...),
	}
}

func (s *OpenAI) Name() string {
	return s.name
}

func (s *OpenAI) Model() string {
	return s.model
}

func (s *OpenAI) GenerateText(ctx context.Context, prompt string) Outcome {
	if !s.hasKey {
		return Failed("OpenAI API key required")
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return Failed("request failed: %v", err)
	}

	if len(resp.Choices) == 0 {
		return Failed("empty response from API")
	}

	return Succeeded(resp.Choices[0].Message.Content)
}
