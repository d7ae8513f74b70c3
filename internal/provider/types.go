package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kinds of backend a Config can describe.
const (
	KindOpenRouter = "openrouter"
	KindOllama     = "ollama"
	KindOpenAI     = "openai"
	KindAnthropic  = "anthropic"
	KindGemini     = "gemini"
)

// Kinds lists every supported backend kind.
var Kinds = []string{KindOpenRouter, KindOllama, KindOpenAI, KindAnthropic, KindGemini}

var ErrUnknownKind = errors.New("unknown provider kind")

// Config describes one registered provider. APIKeyEnv names an environment
// variable the key is read from when APIKey is empty.
type Config struct {
	Name      string        `mapstructure:"name" json:"name"`
	Kind      string        `mapstructure:"kind" json:"kind"`
	Model     string        `mapstructure:"model" json:"model"`
	APIKey    string        `mapstructure:"api_key" json:"-"`
	APIKeyEnv string        `mapstructure:"api_key_env" json:"api_key_env,omitempty"`
	BaseURL   string        `mapstructure:"base_url" json:"base_url,omitempty"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// Outcome is the result of one generation call: exactly one of Text or Err
// is meaningful. A zero Err means success.
type Outcome struct {
	Text string `json:"response,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Succeeded wraps generated text verbatim.
func Succeeded(text string) Outcome {
	return Outcome{Text: text}
}

// Failed builds an error outcome. The message is never empty.
func Failed(format string, args ...any) Outcome {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		msg = "unknown error"
	}
	return Outcome{Err: msg}
}

func (o Outcome) OK() bool { return o.Err == "" }

// DisplayText is the text shown for this outcome: the generated text on
// success, otherwise the error message.
func (o Outcome) DisplayText() string {
	if o.Err != "" {
		return o.Err
	}
	return o.Text
}

// Provider performs a single text-generation call against one backend.
// GenerateText never returns an error value; failures are reported in the
// Outcome.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) Outcome
}

// New builds the provider described by cfg.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.Name == "" {
		cfg.Name = cfg.Kind
	}
	switch cfg.Kind {
	case KindOpenRouter:
		return NewOpenRouter(cfg), nil
	case KindOllama:
		return NewOllama(cfg), nil
	case KindOpenAI:
		return NewOpenAI(cfg), nil
	case KindAnthropic:
		return NewAnthropic(cfg), nil
	case KindGemini:
		return NewGemini(ctx, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// httpTimeout picks the client timeout for a provider config.
func httpTimeout(cfg Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 120 * time.Second
}
