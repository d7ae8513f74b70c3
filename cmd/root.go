/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/valpere/pereval/internal/config"
	"github.com/valpere/pereval/internal/server"
)

var version = "0.1.0"

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// appConfig is loaded once before any subcommand runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pereval",
	Short: "Ask several LLMs the same prompt and rank their answers",
	Long: `A CLI application that sends one prompt to several language models in parallel,
has every model grade every answer on clarity, accuracy, creativity and grammar,
and ranks the answers by their averaged score.

Providers are configured in a YAML file (--config) or fall back to Gemini plus
DeepSeek and Llama through OpenRouter, with keys read from GEMINI_API_KEY,
OPENROUTER_API_KEY_1 and OPENROUTER_API_KEY_2.

Use "pereval ask --help" for one-shot evaluation or "pereval serve --help" for the HTTP API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := withLogger(cmd.Context(), logLevel, logFormat)
		if err != nil {
			return err
		}

		cfg, err := config.Load(ctx, cfgFile)
		if err != nil {
			return err
		}

		// Flags win over the config file.
		level, format := cfg.Log.Level, cfg.Log.Format
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			format = logFormat
		}
		if ctx, err = withLogger(cmd.Context(), level, format); err != nil {
			return err
		}

		appConfig = cfg
		cmd.SetContext(ctx)
		return nil
	},
}

// withLogger installs a slog handler for the given level and format and
// stores it in the context for clog.
func withLogger(ctx context.Context, level, format string) (context.Context, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	slog.SetDefault(slog.New(handler))
	return clog.WithLogger(ctx, clog.New(handler)), nil
}

func Execute() {
	server.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}
