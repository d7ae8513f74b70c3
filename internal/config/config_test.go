package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/pereval/internal/provider"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pereval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY_1", "or-1")
	t.Setenv("OPENROUTER_API_KEY_2", "or-2")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 0, cfg.Engine.MaxConcurrency)
	assert.Equal(t, time.Duration(0), cfg.Engine.CallTimeout)
	assert.Equal(t, "info", cfg.Log.Level)

	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, "gemini", cfg.Providers[0].Name)
	assert.Equal(t, provider.KindGemini, cfg.Providers[0].Kind)
	assert.Equal(t, "g-key", cfg.Providers[0].APIKey)
	assert.Equal(t, "deepseek", cfg.Providers[1].Name)
	assert.Equal(t, "deepseek/deepseek-chat:free", cfg.Providers[1].Model)
	assert.Equal(t, "or-1", cfg.Providers[1].APIKey)
	assert.Equal(t, "llama", cfg.Providers[2].Name)
	assert.Equal(t, "or-2", cfg.Providers[2].APIKey)
}

func TestLoad_PortEnv(t *testing.T) {
	t.Setenv("PORT", "8081")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestLoad_PrefixedEnvOverrides(t *testing.T) {
	t.Setenv("PEREVAL_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("PEREVAL_ENGINE_MAX_CONCURRENCY", "4")
	t.Setenv("PEREVAL_ENGINE_CALL_TIMEOUT", "45s")
	t.Setenv("PEREVAL_LOG_LEVEL", "debug")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Engine.MaxConcurrency)
	assert.Equal(t, 45*time.Second, cfg.Engine.CallTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("LOCAL_CLAUDE_KEY", "from-env")
	path := writeConfig(t, `
engine:
  call_timeout: 30s
providers:
  - name: local
    kind: ollama
    model: mistral:7b
    base_url: http://ollama:11434
    timeout: 2m
  - name: claude
    kind: anthropic
    api_key_env: LOCAL_CLAUDE_KEY
  - kind: openai
    api_key: inline-key
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Engine.CallTimeout)
	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, provider.Config{
		Name:    "local",
		Kind:    provider.KindOllama,
		Model:   "mistral:7b",
		BaseURL: "http://ollama:11434",
		Timeout: 2 * time.Minute,
	}, cfg.Providers[0])
	assert.Equal(t, "from-env", cfg.Providers[1].APIKey)
	assert.Equal(t, "inline-key", cfg.Providers[2].APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidRegistry(t *testing.T) {
	path := writeConfig(t, `
providers:
  - name: a
    kind: bard
`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrUnknownKind))
}

func TestValidate(t *testing.T) {
	t.Run("no providers", func(t *testing.T) {
		cfg := &Config{}
		_, err := cfg.Validate()
		assert.ErrorIs(t, err, ErrNoProviders)
	})

	t.Run("duplicate names", func(t *testing.T) {
		cfg := &Config{Providers: []provider.Config{
			{Name: "x", Kind: provider.KindOllama},
			{Name: "x", Kind: provider.KindOllama},
		}}
		_, err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate name "x"`)
	})

	t.Run("name defaults to kind for duplicates", func(t *testing.T) {
		cfg := &Config{Providers: []provider.Config{
			{Kind: provider.KindOllama},
			{Name: "ollama", Kind: provider.KindOllama},
		}}
		_, err := cfg.Validate()
		assert.Error(t, err)
	})

	t.Run("missing key is a warning", func(t *testing.T) {
		cfg := &Config{Providers: []provider.Config{
			{Name: "deepseek", Kind: provider.KindOpenRouter, APIKeyEnv: "OPENROUTER_API_KEY_1"},
			{Name: "local", Kind: provider.KindOllama},
		}}
		warnings, err := cfg.Validate()
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "OPENROUTER_API_KEY_1")
	})

	t.Run("concurrency cap is flagged", func(t *testing.T) {
		cfg := &Config{
			Engine:    EngineConfig{MaxConcurrency: 2},
			Providers: []provider.Config{{Name: "local", Kind: provider.KindOllama}},
		}
		warnings, err := cfg.Validate()
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "throttles")
	})
}
