package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/viper"

	"github.com/valpere/pereval/internal/provider"
)

var ErrNoProviders = errors.New("no providers configured")

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Engine    EngineConfig      `mapstructure:"engine"`
	Log       LogConfig         `mapstructure:"log"`
	Providers []provider.Config `mapstructure:"providers"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EngineConfig tunes the fan-out. Zero values keep every call unthrottled
// and without a deadline.
type EngineConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	CallTimeout    time.Duration `mapstructure:"call_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// defaultProviders is the registry used when no config file names one.
var defaultProviders = []map[string]any{
	{
		"name":        "gemini",
		"kind":        provider.KindGemini,
		"model":       "gemini-1.5-flash",
		"api_key_env": "GEMINI_API_KEY",
	},
	{
		"name":        "deepseek",
		"kind":        provider.KindOpenRouter,
		"model":       "deepseek/deepseek-chat:free",
		"api_key_env": "OPENROUTER_API_KEY_1",
	},
	{
		"name":        "llama",
		"kind":        provider.KindOpenRouter,
		"model":       "meta-llama/llama-3.3-70b-instruct:free",
		"api_key_env": "OPENROUTER_API_KEY_2",
	},
}

func setDefaults(v *viper.Viper) {
	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	v.SetDefault("server.addr", addr)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("engine.max_concurrency", 0)
	v.SetDefault("engine.call_timeout", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("providers", defaultProviders)
}

// Validate checks the configuration. Problems that make the registry
// unusable are returned as an error; the rest come back as warnings.
func (c *Config) Validate() ([]string, error) {
	var warnings []string
	var errs []error

	if len(c.Providers) == 0 {
		errs = append(errs, ErrNoProviders)
	}

	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		name := p.Name
		if name == "" {
			name = p.Kind
		}
		if !slices.Contains(provider.Kinds, p.Kind) {
			errs = append(errs, fmt.Errorf("providers[%d]: %w: %q", i, provider.ErrUnknownKind, p.Kind))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("providers[%d]: duplicate name %q", i, name))
		}
		seen[name] = true

		if p.APIKey == "" && p.Kind != provider.KindOllama {
			if p.APIKeyEnv != "" {
				warnings = append(warnings, fmt.Sprintf("provider '%s' has no API key (%s is empty); its calls will fail", name, p.APIKeyEnv))
			} else {
				warnings = append(warnings, fmt.Sprintf("provider '%s' has no API key; its calls will fail", name))
			}
		}
		if p.Timeout < 0 {
			warnings = append(warnings, fmt.Sprintf("provider '%s' timeout %s is negative", name, p.Timeout))
		}
	}

	if c.Engine.MaxConcurrency < 0 {
		warnings = append(warnings, fmt.Sprintf("engine max_concurrency %d is negative, treated as unlimited", c.Engine.MaxConcurrency))
	}
	if c.Engine.MaxConcurrency > 0 {
		warnings = append(warnings, fmt.Sprintf("engine max_concurrency %d throttles provider calls; all calls are launched at once when it is 0", c.Engine.MaxConcurrency))
	}

	return warnings, errors.Join(errs...)
}

// resolveKeys fills APIKey from the named environment variable when the key
// is not given inline.
func (c *Config) resolveKeys() {
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.APIKey == "" && p.APIKeyEnv != "" {
			p.APIKey = os.Getenv(p.APIKeyEnv)
		}
	}
}

// Load reads configuration from an optional file and the environment.
func Load(ctx context.Context, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PEREVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.resolveKeys()

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := clog.FromContext(ctx)
	for _, warning := range warnings {
		log.Warnf("config: %s", warning)
	}

	return &cfg, nil
}
