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
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/valpere/pereval/internal"
	"github.com/valpere/pereval/internal/report"
)

var (
	csvInputFile  string
	csvOutputFile string
	csvColumn     int
	csvHasHeader  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate every prompt in a CSV column",
	Long: `Evaluate each prompt found in one column of a CSV file, one prompt at a time,
and write the input rows back out with the best model, its score and every
model's final score appended.

Rows whose prompt cell is empty are copied through with empty report columns.

Example:
  pereval batch -i prompts.csv -o ranked.csv -l 1 --header`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if csvInputFile == csvOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		f, err := os.Open(csvInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input CSV: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}

		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, appConfig)
		if err != nil {
			return err
		}

		out, evaluated, err := evaluateRows(ctx, orch, records, csvColumn, csvHasHeader)
		if err != nil {
			return err
		}

		outFile, err := os.Create(csvOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Evaluated %d prompts: %s\n", evaluated, csvOutputFile)
		return nil
	},
}

// batchEngine is the part of the orchestrator a batch run needs.
type batchEngine interface {
	Providers() []string
	GenerateResponses(ctx context.Context, prompt string) (*internal.EvaluationResult, error)
}

// evaluateRows runs every non-blank prompt in column through engine and
// returns the rows with the report columns appended. Rows with a blank or
// missing prompt cell are padded with empty columns. It also returns the
// number of prompts evaluated.
func evaluateRows(ctx context.Context, engine batchEngine, records [][]string, column int, hasHeader bool) ([][]string, int, error) {
	if column < 0 {
		return nil, 0, fmt.Errorf("column index must not be negative")
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("CSV file is empty")
	}

	log := clog.FromContext(ctx)
	models := engine.Providers()
	header := report.CSVHeader(models)

	out := make([][]string, 0, len(records))
	start := 0
	if hasHeader {
		out = append(out, append(append([]string{}, records[0]...), header...))
		start = 1
	}

	evaluated := 0
	for rowIdx := start; rowIdx < len(records); rowIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, evaluated, fmt.Errorf("interrupted at row %d: %w", rowIdx, err)
		}

		row := append([]string{}, records[rowIdx]...)
		if column >= len(row) || strings.TrimSpace(row[column]) == "" {
			out = append(out, append(row, make([]string, len(header))...))
			continue
		}

		result, err := engine.GenerateResponses(ctx, row[column])
		if err != nil {
			return nil, evaluated, fmt.Errorf("row %d: %w", rowIdx, err)
		}
		log.Infof("row %d: best %s (%.2f)", rowIdx, result.BestResponse.ModelName, result.BestResponse.FinalScore)

		out = append(out, append(row, report.CSVColumns(result, models)...))
		evaluated++
	}

	return out, evaluated, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&csvInputFile, "input", "i", "", "Input CSV file (required)")
	batchCmd.Flags().StringVarP(&csvOutputFile, "output", "o", "", "Output CSV file (required)")
	batchCmd.Flags().IntVarP(&csvColumn, "column", "l", 0, "Column index holding the prompt (0-indexed)")
	batchCmd.Flags().BoolVar(&csvHasHeader, "header", false, "Treat the first row as a header")

	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")
}
