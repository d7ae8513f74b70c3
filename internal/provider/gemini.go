package provider

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini uses the Google Gen AI SDK with the Gemini API backend. A client that
// could not be built (for example, no API key) turns every call into a failed
// outcome instead of aborting startup.
type Gemini struct {
	name    string
	model   string
	client  *genai.Client
	initErr error
}

func NewGemini(ctx context.Context, cfg Config) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	name := cfg.Name
	if name == "" {
		name = KindGemini
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: httpTimeout(cfg)},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})

	return &Gemini{
		name:    name,
		model:   model,
		client:  client,
		initErr: err,
	}
}

func (s *Gemini) Name() string {
	return s.name
}

func (s *Gemini) Model() string {
	return s.model
}

func (s *Gemini) GenerateText(ctx context.Context, prompt string) Outcome {
	if s.initErr != nil {
		return Failed("gemini client unavailable: %v", s.initErr)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return Failed("request failed: %v", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return Failed("empty response from API")
	}

	return Succeeded(resp.Text())
}
