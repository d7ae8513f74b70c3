package judge

import (
	"math"
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ExtractScore returns the first integer or decimal number found in text, or
// 0 when there is none. The value is not range checked or clamped.
func ExtractScore(text string) float64 {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

// Aggregate averages judge scores and rounds half away from zero
// (7.5 becomes 8). An empty slice yields 0.
func Aggregate(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return int(math.Round(sum / float64(len(values))))
}
