// Package ranker turns per-criterion scores into final scores and orders the
// models by them.
package ranker

import (
	"math"
	"slices"

	"github.com/valpere/pereval/internal"
)

// Ranking is the full descending order plus its head.
type Ranking struct {
	Entries []internal.RankingEntry
	Best    internal.RankingEntry
}

// FinalScore is the mean of the four criterion scores, rounded to two decimals.
func FinalScore(s internal.Scores) float64 {
	return round2(float64(s.Sum()) / float64(len(internal.Criteria)))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Score fills FinalScore on every evaluation in place.
func Score(evals []internal.ModelEvaluation) {
	for i := range evals {
		evals[i].FinalScore = FinalScore(evals[i].Scores)
	}
}

// Rank orders evaluations by final score, highest first. Equal scores keep
// their input order, so on a full tie Best is the first model given.
func Rank(evals []internal.ModelEvaluation) Ranking {
	entries := make([]internal.RankingEntry, len(evals))
	for i, e := range evals {
		entries[i] = internal.RankingEntry{
			ModelName:  e.ModelName,
			FinalScore: FinalScore(e.Scores),
		}
	}

	slices.SortStableFunc(entries, func(a, b internal.RankingEntry) int {
		switch {
		case a.FinalScore > b.FinalScore:
			return -1
		case a.FinalScore < b.FinalScore:
			return 1
		}
		return 0
	})

	r := Ranking{Entries: entries}
	if len(entries) > 0 {
		r.Best = entries[0]
	}
	return r
}
