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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/pereval/internal/report"
)

var (
	inputFile    string
	outputFile   string
	outputFormat string
	numberLang   string
	snippetWidth int
)

var errPromptRequired = errors.New("a prompt is required")

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Evaluate one prompt across every configured provider",
	Long: `Send a prompt to every configured provider in parallel, have each provider
grade every answer on four criteria, and print the ranked result.

The prompt is taken from the arguments, from --input, or from stdin when
--input is "-".

Output formats:
  - table   answer snippets and a score table (default)
  - json    the full evaluation result
  - yaml    the full evaluation result`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		prompt, err := readPrompt(cmd.InOrStdin(), args, inputFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, appConfig)
		if err != nil {
			return err
		}

		result, err := orch.GenerateResponses(ctx, prompt)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return report.Write(out, result, format, report.Options{
			Lang:         numberLang,
			SnippetWidth: snippetWidth,
		})
	},
}

// readPrompt takes the prompt from args, from stdin when input is "-", or
// from the file named by input. A blank prompt is rejected.
func readPrompt(stdin io.Reader, args []string, input string) (string, error) {
	var prompt string
	switch {
	case len(args) > 0 && input != "":
		return "", fmt.Errorf("give the prompt as arguments or with --input, not both")
	case len(args) > 0:
		prompt = strings.Join(args, " ")
	case input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		prompt = string(data)
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		prompt = string(data)
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errPromptRequired
	}
	return prompt, nil
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&inputFile, "input", "i", "", `File containing the prompt ("-" for stdin)`)
	askCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	askCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table, json or yaml")
	askCmd.Flags().StringVar(&numberLang, "lang", "en", "Language tag for number formatting in tables")
	askCmd.Flags().IntVar(&snippetWidth, "width", 60, "Maximum answer length shown in tables")
}
