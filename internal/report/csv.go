package report

import (
	"strconv"

	"github.com/valpere/pereval/internal"
)

// CSVHeader names the columns CSVColumns appends to each batch row.
func CSVHeader(models []string) []string {
	cols := []string{"best_model", "best_score"}
	for _, m := range models {
		cols = append(cols, m+"_score")
	}
	return cols
}

// CSVColumns returns the best model, its score and every model's final score,
// in the order given by models. A model missing from result gets an empty
// cell.
func CSVColumns(result *internal.EvaluationResult, models []string) []string {
	final := make(map[string]float64, len(result.Evaluations))
	for _, e := range result.Evaluations {
		final[e.ModelName] = e.FinalScore
	}

	cols := []string{result.BestResponse.ModelName, formatScore(result.BestResponse.FinalScore)}
	for _, m := range models {
		if v, ok := final[m]; ok {
			cols = append(cols, formatScore(v))
		} else {
			cols = append(cols, "")
		}
	}
	return cols
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
